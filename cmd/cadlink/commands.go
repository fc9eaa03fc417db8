package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/config"
	"github.com/smartcad/cadlink/internal/notify"
	"github.com/smartcad/cadlink/internal/reader"
	"github.com/smartcad/cadlink/internal/snapshot"
	"github.com/smartcad/cadlink/internal/writer"
)

var ErrMismatch = errors.New("round trip changed the drawing")

// session options and notification sinks of one command
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	coll   *notify.Collector
	notes  *notify.Chain
}

func newSession(name string, args []string, extra ...func(*pflag.FlagSet)) (*session, []string, error) {
	cfg, rest, err := config.NewConfig(name, args, extra...)
	if err != nil {
		return nil, nil, err
	}

	var logger *zap.Logger
	if cfg.Quiet {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, err
	}

	coll := notify.NewCollector()
	return &session{
		cfg:    cfg,
		logger: logger,
		coll:   coll,
		notes:  notify.NewChain(notify.Logger(logger), coll.Middleware),
	}, rest, nil
}

func (s *session) read(ctx context.Context, path string) (*cad.Document, error) {
	doc, err := reader.ReadFile(ctx, path, *s.cfg, s.notes, s.logger)
	if err != nil {
		return nil, err
	}
	s.summary(path)
	return doc, nil
}

// summary logs the notification counts of the last read and resets them
func (s *session) summary(path string) {
	s.logger.Sugar().Infow("notifications",
		"path", path,
		"warnings", len(s.coll.Of(notify.Warning)),
		"errors", len(s.coll.Of(notify.Error)),
		"not_implemented", len(s.coll.Of(notify.NotImplemented)),
	)
	s.coll.Reset()
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func dump(ctx context.Context, args []string, stdout io.Writer) error {
	const msg = "dump:"
	var format, out string
	var digest bool
	s, rest, err := newSession("dump", args, func(fs *pflag.FlagSet) {
		fs.StringVarP(&format, "format", "f", "yaml", "yaml or cbor")
		fs.StringVarP(&out, "out", "o", "", "output file, standard output by default")
		fs.BoolVar(&digest, "digest", false, "print the snapshot digest only")
	})
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	defer s.close()
	if len(rest) != 1 {
		return fmt.Errorf("%s one drawing expected, got %d", msg, len(rest))
	}

	doc, err := s.read(ctx, rest[0])
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	snap := snapshot.Take(doc)

	var data []byte
	switch {
	case digest:
		sum, err := snap.Digest()
		if err != nil {
			return fmt.Errorf("%s %w", msg, err)
		}
		data = []byte(fmt.Sprintf("%x  %s\n", sum, rest[0]))
	case format == "yaml":
		data, err = snap.YAML()
	case format == "cbor":
		data, err = snap.CBOR()
	default:
		return fmt.Errorf("%s unknown format %q", msg, format)
	}
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}

	if out == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}

func convert(ctx context.Context, args []string, stdout io.Writer) error {
	const msg = "convert:"
	var to string
	s, rest, err := newSession("convert", args, func(fs *pflag.FlagSet) {
		fs.StringVarP(&to, "to", "t", "text", "text or binary")
	})
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	defer s.close()
	if len(rest) != 2 {
		return fmt.Errorf("%s input and output expected, got %d arguments", msg, len(rest))
	}
	format, err := writer.ParseFormat(to)
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}

	doc, err := s.read(ctx, rest[0])
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	if err := writer.WriteFile(ctx, rest[1], doc, format, s.logger); err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	_, err = fmt.Fprintf(stdout, "%s -> %s (%s, %d objects)\n", rest[0], rest[1], format, doc.Len())
	return err
}

// check every drawing must give the same snapshot after a write and read cycle in
// both forms
func check(ctx context.Context, args []string, stdout io.Writer) error {
	const msg = "check:"
	s, rest, err := newSession("check", args)
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	defer s.close()
	if len(rest) == 0 {
		return fmt.Errorf("%s no drawing given", msg)
	}

	var failed int
	for _, path := range rest {
		doc, err := s.read(ctx, path)
		if err != nil {
			return fmt.Errorf("%s %w", msg, err)
		}
		want := snapshot.Take(doc)
		for _, format := range []writer.Format{writer.Text, writer.Binary} {
			diff, err := s.cycle(ctx, doc, want, format)
			if err != nil {
				return fmt.Errorf("%s %s %s: %w", msg, path, format, err)
			}
			status := "ok"
			if len(diff) > 0 {
				failed++
				status = fmt.Sprintf("FAIL %v", diff)
			}
			if _, err := fmt.Fprintf(stdout, "%s %s %s\n", path, format, status); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%s %d of %d round trips: %w", msg, failed, 2*len(rest), ErrMismatch)
	}
	return nil
}

// cycle handles of the objects that differ after writing doc and reading it back. A
// differing header or entity list is reported as the handle "header".
func (s *session) cycle(ctx context.Context, doc *cad.Document, want *snapshot.Snapshot, format writer.Format) ([]string, error) {
	var buf bytes.Buffer
	if err := writer.NewDxfWriter(&buf, format, s.logger).Write(ctx, doc); err != nil {
		return nil, err
	}
	r, err := reader.NewDxfReader(&buf, *s.cfg, s.notes, s.logger)
	if err != nil {
		return nil, err
	}
	again, err := r.Read(ctx)
	if err != nil {
		return nil, err
	}
	s.coll.Reset()

	got := snapshot.Take(again)
	diff := snapshot.Diff(want, got)
	if len(diff) > 0 {
		return diff, nil
	}
	wantSum, err := want.Digest()
	if err != nil {
		return nil, err
	}
	gotSum, err := got.Digest()
	if err != nil {
		return nil, err
	}
	if wantSum != gotSum {
		return []string{"header"}, nil
	}
	return nil, nil
}
