// Copyright 2025 The rpc-framework Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpc

import (
	"os"

	"github.com/rs/zerolog"
)

// defaultLogger is the engine's fallback logger when no WithLogger option is
// given: leveled, structured, written to stderr. Individual Server/Client
// instances may override it entirely via WithLogger, including with
// zerolog.Nop() to silence logging in tests.
func defaultLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
}
