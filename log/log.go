// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log provides a minimal, structured, leveled logging facade.
// Consumers hand the parser any implementation of the Logger interface;
// everything in this package layers on top of that single method.
package log

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// DefaultMessageKey is the default key for the message body.
const DefaultMessageKey = "msg"

// Logger is a structured logger interface.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

type stdLogger struct {
	log  *log.Logger
	pool *sync.Pool
}

// NewStdLogger returns a Logger writing key=value lines to w via the
// standard library logger.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{
		log: log.New(w, "", log.LstdFlags),
		pool: &sync.Pool{
			New: func() interface{} {
				return new(bytesBuffer)
			},
		},
	}
}

type bytesBuffer struct {
	buf []byte
}

func (b *bytesBuffer) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

func (b *bytesBuffer) Reset() { b.buf = b.buf[:0] }

// Log prints the keyvals alternating key=value pairs.
func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}
	if (len(keyvals) & 1) == 1 {
		keyvals = append(keyvals, "KEYVALS UNPAIRED")
	}
	buf := l.pool.Get().(*bytesBuffer)
	buf.WriteString(level.String())
	for i := 0; i < len(keyvals); i += 2 {
		buf.WriteString(fmt.Sprintf(" %s=%v", keyvals[i], keyvals[i+1]))
	}
	l.log.Output(4, string(buf.buf)) //nolint:errcheck
	buf.Reset()
	l.pool.Put(buf)
	return nil
}
