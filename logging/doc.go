// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package logging connects the fetch lifecycle to zerolog.

The handler it provides logs every attempt, timeout, failure, and
final outcome with the source name, execution ID, attempt number, and
error classification as structured fields. Install it on a client in
one call:

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	client := &fetchx.Client{Fetcher: f}
	logging.Install(client, &logger)

or register the handler on selected events yourself via NewHandler and
HandlerGroup.PushBack.
*/
package logging
