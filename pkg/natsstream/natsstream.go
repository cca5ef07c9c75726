// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package natsstream lets one process produce a sendwire message onto
// a NATS subject and another consume it from there, without a shared
// filesystem. NATS delivers discrete messages rather than a byte
// stream, so one sendwire document maps to exactly one NATS message:
// Writer buffers every byte written to it and publishes once on
// Close; Reader blocks for the next message on the subject once, then
// serves its bytes across however many Read calls the sendwire.Reader
// state machine makes.
package natsstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sendwire/sendwire/pkg/sendwirelog"
)

// ErrConnClosed reports use of a Conn, Writer, or Reader after Close.
var ErrConnClosed = errors.New("[natsstream]> connection already closed")

// Config describes how to reach a NATS server.
type Config struct {
	Address       string
	Username      string
	Password      string
	CredsFilePath string
	// ReadTimeout bounds how long Reader.Read waits for the first
	// message on a subject before giving up. Zero means no timeout.
	ReadTimeout time.Duration
}

// Conn is a thin handle for opening stream-shaped Writers and Readers
// over one NATS connection.
type Conn struct {
	nc     *nats.Conn
	cfg    Config
	closed bool
}

// Dial connects to the NATS server described by cfg.
func Dial(cfg Config) (*Conn, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("[natsstream]> address is required")
	}

	var opts []nats.Option
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.CredsFilePath != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFilePath))
	}
	opts = append(opts, nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
		if err != nil {
			sendwirelog.Errorf("natsstream: %v", err)
		}
	}))

	nc, err := nats.Connect(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("[natsstream]> connect: %w", err)
	}

	sendwirelog.Infof("natsstream: connected to %s", cfg.Address)
	return &Conn{nc: nc, cfg: cfg}, nil
}

// Writer returns an io.WriteCloser that publishes everything written
// to it as a single NATS message on subject when Close is called.
func (c *Conn) Writer(subject string) io.WriteCloser {
	return &subjectWriter{conn: c, subject: subject}
}

// Reader returns an io.ReadCloser that waits for the next message on
// subject, then serves its payload.
func (c *Conn) Reader(subject string) io.ReadCloser {
	return &subjectReader{conn: c, subject: subject}
}

// Close drains no in-flight subscriptions (Reader manages its own) and
// closes the underlying NATS connection.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.nc.Close()
	return nil
}

type subjectWriter struct {
	conn    *Conn
	subject string
	buf     bytes.Buffer
	closed  bool
}

func (w *subjectWriter) Write(p []byte) (int, error) {
	if w.conn.closed || w.closed {
		return 0, ErrConnClosed
	}
	return w.buf.Write(p)
}

func (w *subjectWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.conn.closed {
		return ErrConnClosed
	}
	if err := w.conn.nc.Publish(w.subject, w.buf.Bytes()); err != nil {
		return fmt.Errorf("[natsstream]> publish to %q: %w", w.subject, err)
	}
	sendwirelog.Debugf("natsstream: published %d byte(s) to %q", w.buf.Len(), w.subject)
	return w.conn.nc.Flush()
}

type subjectReader struct {
	conn     *Conn
	subject  string
	received bool
	body     *bytes.Reader
	closed   bool
}

func (r *subjectReader) awaitMessage() error {
	ctx := context.Background()
	var cancel context.CancelFunc
	if r.conn.cfg.ReadTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.conn.cfg.ReadTimeout)
		defer cancel()
	}

	sub, err := r.conn.nc.SubscribeSync(r.subject)
	if err != nil {
		return fmt.Errorf("[natsstream]> subscribe to %q: %w", r.subject, err)
	}
	defer sub.Unsubscribe()

	msg, err := sub.NextMsgWithContext(ctx)
	if err != nil {
		return fmt.Errorf("[natsstream]> await message on %q: %w", r.subject, err)
	}

	r.body = bytes.NewReader(msg.Data)
	r.received = true
	sendwirelog.Debugf("natsstream: received %d byte(s) on %q", len(msg.Data), r.subject)
	return nil
}

func (r *subjectReader) Read(p []byte) (int, error) {
	if r.conn.closed || r.closed {
		return 0, ErrConnClosed
	}
	if !r.received {
		if err := r.awaitMessage(); err != nil {
			return 0, err
		}
	}
	return r.body.Read(p)
}

func (r *subjectReader) Close() error {
	r.closed = true
	return nil
}
