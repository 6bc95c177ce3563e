package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	perrors "github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/internal/i18n"
	"github.com/123Haben/parking-place/pkg/middleware"
	"github.com/123Haben/parking-place/pkg/routepath"
	"github.com/123Haben/parking-place/pkg/router"
	"github.com/123Haben/parking-place/pkg/views"
)

// serveWebSocket upgrades the request and runs the session until the
// connection or the server closes.
func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.track() {
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.Warn("websocket upgrade failed", "error", err)
		s.opts.Metrics.WebSocketError("upgrade")
		return
	}
	conn.SetReadLimit(s.opts.MaxMessageSize)

	nav := s.router.NewNavigator(router.NewHistory(s.opts.HistoryCapacity))
	sess := newSession(s.baseCtx, conn, nav, s.localizerFor(r), s.opts.WriteTimeout, s.logger)
	s.sessions.Add(sess)
	defer s.sessions.Remove(sess.ID)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.heartbeat(sess)
	}()

	s.readLoop(sess)
}

// readLoop reads client messages until the connection fails. It is the only
// goroutine that touches the session navigator.
func (s *Server) readLoop(sess *Session) {
	conn := sess.conn
	_ = conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		sess.touch()
		return conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	})

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived) && !sess.IsClosed() {
				sess.logger.Warn("read error", "error", err)
				s.opts.Metrics.WebSocketError("read")
			}
			return
		}
		sess.touch()
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))

		if typ != websocket.TextMessage {
			err = perrors.New(perrors.CodeMalformedMessage).WithDetail("binary frames are not accepted")
		} else {
			var msg ClientMessage
			msg, err = DecodeClientMessage(data)
			if err == nil {
				err = s.handleMessage(sess, msg)
			}
		}
		if err == nil {
			continue
		}
		if !isClientError(err) {
			sess.logger.Warn("write failed", "error", err)
			s.opts.Metrics.WebSocketError("write")
			return
		}
		if code := perrors.CodeOf(err); code == perrors.CodeMalformedMessage || code == perrors.CodeUnknownMessage {
			s.opts.Metrics.WebSocketError(code)
		}
		sess.logger.Debug("message rejected", "error", err)
		if werr := sess.Send(errorMessage(err)); werr != nil {
			return
		}
	}
}

// handleMessage applies one client message. Client errors are returned as
// *perrors.ParkError; any other error is a failed write.
func (s *Server) handleMessage(sess *Session, msg ClientMessage) error {
	if msg.Type == MsgHello {
		if msg.Locale != "" && s.opts.Catalog != nil {
			sess.localizer = s.opts.Catalog.Localizer(msg.Locale, s.opts.Locale)
		}
		if err := sess.Send(HelloMessage{
			Type:    MsgHello,
			Session: sess.ID,
			Mode:    s.router.Mode().String(),
		}); err != nil {
			return err
		}
	}

	ctx := s.navContext(sess)
	n := sess.navigator

	var (
		nav *router.Navigation
		err error
	)
	switch msg.Type {
	case MsgHello:
		nav, err = n.Navigate(ctx, s.initialLocation(msg.Path), router.WithReplace())
	case MsgNavigate:
		var opts []router.NavigateOption
		if msg.Replace {
			opts = append(opts, router.WithReplace())
		}
		nav, err = n.Navigate(ctx, msg.Location(), opts...)
	case MsgPopState:
		index := -1
		if msg.Index != nil {
			index = *msg.Index
		}
		nav, err = n.Sync(ctx, msg.Path, index)
	case MsgBack:
		nav, err = n.Back(ctx)
	case MsgForward:
		nav, err = n.Forward(ctx)
	}
	if err != nil {
		return err
	}

	out, err := s.render(ctx, sess, nav)
	if err != nil {
		sess.logger.Error("view render failed", "error", err)
		return perrors.New(perrors.CodeMissingComponent).
			WithDetailf("rendering %q", nav.Requested).Wrap(err)
	}
	return sess.Send(out)
}

// initialLocation maps the location a client reports on hello to a target.
// An empty location opens the first route.
func (s *Server) initialLocation(path string) router.Location {
	if path == "" {
		routes := s.router.Table().Routes()
		if len(routes) > 0 {
			return router.ToName(routes[0].Name)
		}
		path = "/"
	}
	return router.ToPath(path)
}

func (s *Server) navContext(sess *Session) context.Context {
	ctx := middleware.ContextWithSession(sess.ctx, sess.ID)
	return i18n.WithLocalizer(ctx, sess.localizer)
}

// render builds the render message for a committed navigation.
func (s *Server) render(ctx context.Context, sess *Session, nav *router.Navigation) (RenderMessage, error) {
	path, _ := routepath.SplitPathAndQuery(nav.Requested)
	ctx = views.WithPath(ctx, path)

	comp := nav.Component
	if comp == nil && !nav.Matched() {
		comp = s.notFound
	}

	var view, bar bytes.Buffer
	if comp != nil {
		if err := comp.Render(ctx, &view); err != nil {
			return RenderMessage{}, err
		}
	}
	if err := views.Nav(s.router, nav.To).Render(ctx, &bar); err != nil {
		return RenderMessage{}, err
	}

	return RenderMessage{
		Type:   MsgRender,
		Op:     string(nav.Op),
		URL:    nav.URL,
		Path:   nav.Requested,
		Route:  nav.RouteName(),
		Title:  views.Title(sess.localizer, nav.To),
		HTML:   view.String(),
		Nav:    bar.String(),
		Index:  nav.Index,
		Delta:  nav.Delta,
		Status: nav.Status,
	}, nil
}

func (s *Server) heartbeat(sess *Session) {
	ticker := time.NewTicker(s.opts.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := sess.ping(); err != nil {
				return
			}
		case <-sess.ctx.Done():
			return
		}
	}
}

func isClientError(err error) bool {
	var pe *perrors.ParkError
	return errors.As(err, &pe)
}
