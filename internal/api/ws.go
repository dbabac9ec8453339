package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/myjellybean/jellybean/internal/analysis"
	"github.com/myjellybean/jellybean/internal/app"
	"github.com/myjellybean/jellybean/internal/logger"
	"github.com/myjellybean/jellybean/internal/model"
	"github.com/myjellybean/jellybean/internal/report"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin:     loopbackOrigin,
}

// loopbackOrigin accepts non-browser clients and pages served from this machine.
func loopbackOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// WebSocket message types from client.
const (
	wsMsgSubmit   = "submit"
	wsMsgReport   = "report"
	wsMsgBack     = "back"
	wsMsgNavigate = "navigate"
)

// WebSocket message types to client.
const (
	wsMsgState = "state"
	wsMsgError = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsNavigate is the payload for "navigate" messages.
type wsNavigate struct {
	View string `json:"view"`
}

// wsStateResponse is sent after every transition. Report carries the
// formatted text while the session is on the report view.
type wsStateResponse struct {
	app.State
	Report string `json:"report,omitempty"`
}

// session is one connection's view state machine. The controller is not
// safe for concurrent use; mu guards it and the connection writes.
type session struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	ctrl     *app.Controller
	analyzer app.Analyzer
	server   *Server
	log      *logger.Logger
	wg       sync.WaitGroup
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	sess := &session{
		conn:     conn,
		ctrl:     app.NewController(s.store, s.log),
		analyzer: s.analyzer,
		server:   s,
		log:      s.log.WithComponent("ws"),
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel()
		sess.wg.Wait()
	}()

	sess.mu.Lock()
	sess.sendState()
	sess.mu.Unlock()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sess.mu.Lock()
			sess.sendError("invalid message format")
			sess.mu.Unlock()
			continue
		}
		sess.handle(ctx, msg)
	}
}

func (sess *session) handle(ctx context.Context, msg wsMessage) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch msg.Type {
	case wsMsgSubmit:
		sess.submit(ctx, msg.Data)
	case wsMsgReport:
		sess.apply(sess.ctrl.RequestReport())
	case wsMsgBack:
		sess.apply(sess.ctrl.Back())
	case wsMsgNavigate:
		var req wsNavigate
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			sess.sendError("invalid navigate data")
			return
		}
		v, err := app.ParseView(req.View)
		if err != nil {
			sess.sendError(err.Error())
			return
		}
		sess.apply(sess.ctrl.Navigate(v))
	default:
		sess.sendError("unknown message type: " + msg.Type)
	}
}

// submit enters analyzing and runs the provider call in the background so
// further messages see the busy state.
func (sess *session) submit(ctx context.Context, data json.RawMessage) {
	var form app.Form
	if err := json.Unmarshal(data, &form); err != nil {
		sess.sendError("invalid submit data")
		return
	}
	if sess.analyzer == nil {
		sess.sendError("No analysis provider is configured.")
		return
	}

	if sess.ctrl.View() != app.ViewAnalyzing && !sess.server.beginAnalysis() {
		sess.sendError("Another analysis is in progress. Try again when it finishes.")
		return
	}

	req, err := sess.ctrl.Submit(form)
	if err != nil && !errors.Is(err, app.ErrBusy) {
		sess.server.endAnalysis()
	}
	if errors.Is(err, analysis.ErrEmptyMessage) {
		sess.server.metrics.observe(time.Now(), err)
		sess.sendError(analysis.UserMessage(err))
		return
	}
	if err != nil {
		sess.sendError(err.Error())
		return
	}
	sess.sendState()

	sess.wg.Add(1)
	go func() {
		defer sess.wg.Done()
		defer sess.server.endAnalysis()
		actx, cancel := sess.server.analysisContext(ctx)
		defer cancel()

		start := time.Now()
		result, err := sess.analyzer.Analyze(actx, req)
		sess.server.metrics.observe(start, err)
		sess.finish(result, err)
	}()
}

func (sess *session) finish(result *model.AnalysisResult, err error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err != nil {
		_ = sess.ctrl.Fail(err)
	} else if serr := sess.ctrl.Succeed(*result); serr != nil {
		sess.sendError(serr.Error())
		return
	}
	sess.sendState()
}

func (sess *session) apply(err error) {
	if err != nil {
		sess.sendError(err.Error())
		return
	}
	sess.sendState()
}

func (sess *session) sendState() {
	st := wsStateResponse{State: sess.ctrl.State()}
	if st.View == app.ViewReport && st.Current != nil {
		st.Report = report.Format(*st.Current)
	}
	sess.send(wsMsgState, st)
}

func (sess *session) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		sess.log.Error().Err(err).Msg("ws marshal")
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := sess.conn.WriteJSON(msg); err != nil {
		sess.log.Warn().Err(err).Msg("ws write")
	}
}

func (sess *session) sendError(errMsg string) {
	sess.send(wsMsgError, map[string]string{"message": errMsg})
}
