package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordboost/internal/logger"
	"github.com/bastiangx/wordboost/pkg/config"
	"github.com/bastiangx/wordboost/pkg/engine"
	"github.com/bastiangx/wordboost/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for one engine session
type Server struct {
	engine     *engine.Engine
	host       *host
	config     *config.Config
	configPath string
	version    string
	log        *log.Logger

	reader  io.Reader
	writer  *bufio.Writer
	encoder *msgpack.Encoder
	reloads <-chan *config.Config
}

// NewServer creates a server using stdin/stdout for IPC. configPath may be
// empty, in which case settings changed over IPC are not saved.
func NewServer(gen *suggest.Generator, s *engine.Session, c *config.Config, configPath string) *Server {
	return newServer(gen, s, c, configPath, os.Stdin, os.Stdout)
}

func newServer(gen *suggest.Generator, s *engine.Session, c *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	h := &host{}
	bw := bufio.NewWriter(w)
	return &Server{
		engine:     engine.New(h, gen, s),
		host:       h,
		config:     c,
		configPath: configPath,
		log:        logger.New("server"),
		reader:     bufio.NewReader(r),
		writer:     bw,
		encoder:    msgpack.NewEncoder(bw),
	}
}

// SetVersion sets the version reported in the ready message.
func (s *Server) SetVersion(v string) { s.version = v }

// Watch applies configs from w between requests.
func (s *Server) Watch(w *config.Watcher) {
	s.reloads = w.Updates()
}

// Engine returns the engine the server drives.
func (s *Server) Engine() *engine.Engine { return s.engine }

// Start begins listening for IPC requests and returns when stdin is closed
// or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting Server.")

	pending := max(s.config.Server.MaxPending, 1)
	requests := make(chan msgpack.RawMessage, pending)
	readErr := make(chan error, 1)
	go s.read(requests, readErr)

	// Signal that the server is ready
	if err := s.sendResponse(StatusResponse{Status: "ready", Version: s.version}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-s.reloads:
			s.applyConfig(ctx, c)
		case raw, ok := <-requests:
			if !ok {
				return <-readErr
			}
			s.drainReloads(ctx)
			s.handleRequest(ctx, raw)
		}
	}
}

// read decodes whole messages until EOF. Each message is kept raw so a
// malformed request does not break the stream.
func (s *Server) read(out chan<- msgpack.RawMessage, errc chan<- error) {
	defer close(out)
	dec := msgpack.NewDecoder(s.reader)
	for {
		raw, err := dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				errc <- nil
				return
			}
			s.log.Errorf("Reading from stdin: %v", err)
			errc <- err
			return
		}
		out <- raw
	}
}

// drainReloads applies a config that arrived while a request was queued.
func (s *Server) drainReloads(ctx context.Context) {
	select {
	case c := <-s.reloads:
		s.applyConfig(ctx, c)
	default:
	}
}

func (s *Server) applyConfig(ctx context.Context, c *config.Config) {
	if c == nil {
		return
	}
	s.host.begin()
	if err := s.engine.ApplyConfig(ctx, c); err != nil {
		s.log.Warn("Config applied with errors", "err", err)
	}
	s.config = c
	s.log.Info("Config reloaded")
}

// handleRequest decodes and dispatches one request.
func (s *Server) handleRequest(ctx context.Context, raw msgpack.RawMessage) {
	var req request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "invalid msgpack request", 400)
		return
	}

	switch {
	case req.Action != "":
		s.handleConfig(ctx, req)
	case req.Index != nil:
		s.handleClick(ctx, req)
	case req.Sym != 0:
		s.handleKey(ctx, req)
	default:
		s.sendError(req.ID, "request has no key, click or action", 400)
	}
}

func (s *Server) handleKey(ctx context.Context, req request) {
	ev := KeyRequest{ID: req.ID, Sym: req.Sym, Mods: req.Mods}.Event()
	start := time.Now()
	s.host.begin()
	handled := s.engine.ProcessKey(ctx, ev)
	if !handled {
		s.host.apply(ev)
	}
	s.log.Debug("Key", "id", req.ID, "key", ev, "handled", handled)
	s.send(s.host.response(req.ID, handled, time.Since(start)))
}

func (s *Server) handleClick(ctx context.Context, req request) {
	button := req.Button
	if button == 0 {
		button = engine.ButtonPrimary
	}
	start := time.Now()
	s.host.begin()
	s.engine.CandidateClicked(ctx, *req.Index, button)
	s.send(s.host.response(req.ID, true, time.Since(start)))
}

func (s *Server) handleConfig(ctx context.Context, req request) {
	s.host.begin()
	var err error
	switch req.Action {
	case ActionSetPageSize:
		if req.PageSize == nil {
			s.sendError(req.ID, "missing 'page_size'", 400)
			return
		}
		if err = s.engine.SetPageSize(ctx, *req.PageSize); err == nil {
			err = s.save(req.PageSize, nil, nil)
		}
	case ActionSetIMEs:
		if err = s.engine.SetIMEs(ctx, req.Names); err == nil {
			err = s.save(nil, s.engine.Session().Options.CurrentIMEs, nil)
		}
	case ActionSetDictionaries:
		s.engine.SetDictionaries(ctx, req.Names)
		err = s.save(nil, nil, s.engine.Session().Options.DictionaryNames)
	case ActionReload:
		err = s.reload(ctx)
	case ActionReset:
		s.engine.Reset()
		s.host.clearLine()
	case ActionGetConfig:
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
		return
	}

	opts := s.engine.Session().Options
	resp := ConfigResponse{
		ID:           req.ID,
		Status:       "ok",
		PageSize:     opts.PageSize,
		IMEs:         opts.CurrentIMEs,
		Dictionaries: opts.DictionaryNames,
	}
	if err != nil {
		s.log.Warn("Config request failed", "action", req.Action, "err", err)
		resp.Status = "error"
		resp.Error = err.Error()
	}
	s.send(resp)
}

// save writes changed settings back to the config file.
func (s *Server) save(pageSize *int, imes, dictionaries []string) error {
	if s.configPath == "" {
		return nil
	}
	return s.config.Update(s.configPath, pageSize, imes, dictionaries)
}

func (s *Server) reload(ctx context.Context) error {
	if s.configPath == "" {
		return fmt.Errorf("no config file to reload")
	}
	c, err := config.Reload(s.configPath)
	if err != nil {
		return err
	}
	loader := s.engine.Session().Loader()
	for _, name := range c.Engine.DictionaryNames {
		loader.Forget(name)
	}
	s.config = c
	return s.engine.ApplyConfig(ctx, c)
}

func (s *Server) send(response any) {
	if err := s.sendResponse(response); err != nil {
		s.log.Errorf("Writing response: %v", err)
	}
}

// sendResponse encodes the response and flushes it to the client.
func (s *Server) sendResponse(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return s.writer.Flush()
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
