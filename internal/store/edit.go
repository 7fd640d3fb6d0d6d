package store

import (
	"context"
	"fmt"
	"log/slog"

	"poseidon/internal/configtype"
)

// EditFunc receives the current parsed document of typ and returns its
// replacement. Returning a nil document keeps doc, including any changes
// made to it in place.
type EditFunc func(ctx context.Context, doc any, typ configtype.Type, s *Store) (any, error)

// Pending is the eventual result of Edit.
type Pending struct {
	done  chan struct{}
	store *Store
	err   error
}

// Done is closed once the edit has finished.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the edit has finished and returns its result.
func (p *Pending) Wait() (*Store, error) {
	<-p.done
	return p.store, p.err
}

func (p *Pending) resolve(s *Store, err error) {
	p.store, p.err = s, err
	close(p.done)
}

// Edit reads the config for token, passes it to fn, saves what fn returns
// and reloads the type. Edit always completes asynchronously; use Wait or
// Done. Cancelling ctx before fn returns abandons the edit without saving.
func (s *Store) Edit(ctx context.Context, token string, fn EditFunc) *Pending {
	return s.EditWithOptions(ctx, token, fn, SaveOptions{})
}

// EditWithOptions is Edit with save options, e.g. to back up the file
// being replaced.
func (s *Store) EditWithOptions(ctx context.Context, token string, fn EditFunc, opts SaveOptions) *Pending {
	p := &Pending{done: make(chan struct{})}

	typ, err := s.parse(token)
	if err != nil {
		p.resolve(nil, err)
		return p
	}

	go func() {
		p.resolve(s.edit(ctx, typ, fn, opts))
	}()
	return p
}

type editResult struct {
	doc any
	err error
}

func (s *Store) edit(ctx context.Context, typ configtype.Type, fn EditFunc, opts SaveOptions) (*Store, error) {
	doc, err := s.ReadType(typ)
	if err != nil {
		return nil, err
	}

	// fn runs on its own goroutine so a callback that ignores ctx cannot
	// hold the edit past cancellation. Its late result is dropped.
	results := make(chan editResult, 1)
	go func() {
		next, err := fn(ctx, doc, typ, s)
		results <- editResult{doc: next, err: err}
	}()

	var r editResult
	select {
	case <-ctx.Done():
		s.log.Warn("config edit abandoned", slog.String("type", typ.Token()), slog.Any("error", ctx.Err()))
		return nil, ctx.Err()
	case r = <-results:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, fmt.Errorf("editing config %s: %w", typ.Token(), r.err)
	}

	next := r.doc
	if next == nil {
		next = doc
	}
	if _, err := s.SaveType(typ, next, opts); err != nil {
		return nil, err
	}
	if _, err := s.LoadType(typ); err != nil {
		return nil, err
	}
	return s, nil
}
