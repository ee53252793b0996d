package podcasttts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// sessionState 会话状态机
//
// 每个连接按固定顺序推进：
//
//	idle -> dialed -> connected -> sessionOpen -> finished -> closed
//
// 状态转移方法校验当前状态，乱序调用属于编程错误。
type sessionState int

const (
	stateIdle sessionState = iota
	stateDialed
	stateConnected
	stateSessionOpen
	stateFinished
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateDialed:
		return "dialed"
	case stateConnected:
		return "connected"
	case stateSessionOpen:
		return "session-open"
	case stateFinished:
		return "finished"
	case stateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// sessionContext 跨连接的断点续传状态
type sessionContext struct {
	// taskID 是首次连接的 session id，续传时作为 retry_task_id
	taskID string

	// lastRoundID 最后一个成功提交的轮次
	lastRoundID int

	// currentRound 当前正在接收的轮次
	currentRound int

	// roundComplete 当前轮次是否已提交
	roundComplete bool
}

// resumed 是否为断点续传
func (sc *sessionContext) resumed() bool {
	return sc.taskID != ""
}

// attempt 一次连接内的会话
type attempt struct {
	client    *Client
	number    int
	state     sessionState
	conn      *websocket.Conn
	proto     *binaryProtocol
	connectID string
	sessionID string
	log       zerolog.Logger
}

func newAttempt(client *Client, number int, log zerolog.Logger) *attempt {
	return &attempt{
		client:    client,
		number:    number,
		state:     stateIdle,
		proto:     newBinaryProtocol(),
		connectID: uuid.NewString(),
		log:       log.With().Int("attempt", number).Logger(),
	}
}

// transition 校验并推进状态
func (a *attempt) transition(from, to sessionState) error {
	if a.state != from {
		return fmt.Errorf("podcasttts: invalid session transition to %s: in state %s, want %s", to, a.state, from)
	}
	a.state = to
	return nil
}

// dial opens the WebSocket connection.
func (a *attempt) dial(ctx context.Context) error {
	if err := a.transition(stateIdle, stateDialed); err != nil {
		return err
	}

	endpoint := a.client.config.wsURL + podcastPath
	headers := a.client.wsHeaders(a.connectID)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, headers)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(resp.Body)
			return &transportError{op: "dial", err: fmt.Errorf("%w, status=%s, body=%s", err, resp.Status, string(body))}
		}
		return &transportError{op: "dial", err: err}
	}
	a.conn = conn
	a.log.Debug().Str("connect_id", a.connectID).Msg("websocket connected")
	return nil
}

// startConnection performs the StartConnection / ConnectionStarted exchange.
func (a *attempt) startConnection() error {
	if err := a.transition(stateDialed, stateConnected); err != nil {
		return err
	}

	err := a.writeMessage(&message{
		msgType: msgTypeFullClient,
		flags:   msgFlagWithEvent,
		event:   eventStartConnection,
		payload: []byte("{}"),
	})
	if err != nil {
		return err
	}

	msg, err := a.readMessage()
	if err != nil {
		return err
	}
	switch {
	case msg.isError():
		return a.protocolError(msg, -1)
	case msg.event == eventConnectionStarted:
		return nil
	case msg.event == eventConnectionFailed:
		return a.failureError(msg, "connection failed")
	}
	return &transportError{op: "start connection", err: fmt.Errorf("unexpected event %d", msg.event)}
}

// startSession sends StartSession with the request payload and waits for
// SessionStarted. Resumed attempts attach retry_info so the server
// continues after the last committed round.
func (a *attempt) startSession(req *PodcastRequest, sc *sessionContext) error {
	if err := a.transition(stateConnected, stateSessionOpen); err != nil {
		return err
	}

	a.sessionID = uuid.NewString()

	wire := *req
	if sc.resumed() {
		wire.RetryInfo = &RetryInfo{
			RetryTaskID:         sc.taskID,
			LastFinishedRoundID: sc.lastRoundID,
		}
		a.log.Info().
			Str("retry_task_id", sc.taskID).
			Int("last_finished_round_id", sc.lastRoundID).
			Msg("resuming session")
	} else {
		sc.taskID = a.sessionID
	}

	payload, err := json.Marshal(&wire)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	err = a.writeMessage(&message{
		msgType:   msgTypeFullClient,
		flags:     msgFlagWithEvent,
		event:     eventStartSession,
		sessionID: a.sessionID,
		payload:   payload,
	})
	if err != nil {
		return err
	}

	msg, err := a.readMessage()
	if err != nil {
		return err
	}
	switch {
	case msg.isError():
		return a.protocolError(msg, -1)
	case msg.event == eventSessionStarted:
		a.log.Debug().Str("session_id", a.sessionID).Msg("session started")
		return nil
	case msg.event == eventSessionFailed:
		return a.failureError(msg, "session failed")
	}
	return &transportError{op: "start session", err: fmt.Errorf("unexpected event %d", msg.event)}
}

// finishSession signals that the client sends no further input. The server
// keeps streaming until it closes the session itself.
func (a *attempt) finishSession() error {
	if a.state != stateSessionOpen {
		return fmt.Errorf("podcasttts: finish session in state %s", a.state)
	}
	return a.writeMessage(&message{
		msgType:   msgTypeFullClient,
		flags:     msgFlagWithEvent,
		event:     eventFinishSession,
		sessionID: a.sessionID,
		payload:   []byte("{}"),
	})
}

// Server payload shapes.
type roundStartPayload struct {
	RoundID int    `json:"round_id"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type roundEndPayload struct {
	RoundID       int    `json:"round_id"`
	IsError       bool   `json:"is_error"`
	ErrorMsg      string `json:"error_msg"`
	AudioDuration int    `json:"audio_duration"`
}

type roundResponsePayload struct {
	Data []byte `json:"data"` // base64 audio
}

type podcastEndPayload struct {
	MetaInfo struct {
		AudioURL     string       `json:"audio_url"`
		InputMetrics InputMetrics `json:"input_metrics"`
	} `json:"meta_info"`
}

type usageResponsePayload struct {
	Usage Usage `json:"usage"`
}

type failurePayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// streamRounds consumes the round stream until SessionFinished.
//
// Audio chunks go into the accumulator's pending buffer; a successful
// RoundEnd commits them and advances the resume point. A failed round or a
// dropped connection returns a resumable error.
func (a *attempt) streamRounds(sc *sessionContext, acc *audioAccumulator, cfg *generateConfig, result *PodcastResult) error {
	if a.state != stateSessionOpen {
		return fmt.Errorf("podcasttts: stream rounds in state %s", a.state)
	}

	for {
		msg, err := a.readMessage()
		if err != nil {
			return err
		}

		switch {
		case msg.isError():
			return a.protocolError(msg, sc.currentRound)

		case msg.isAudioOnly():
			acc.appendChunk(msg.payload)
			cfg.emit(ProgressEvent{
				Kind:       ProgressAudio,
				RoundID:    sc.currentRound,
				ChunkBytes: len(msg.payload),
				TotalBytes: acc.total(),
				Attempt:    a.number,
			})

		default:
			switch msg.event {
			case eventPodcastRoundStart:
				var p roundStartPayload
				if err := json.Unmarshal(msg.payload, &p); err != nil {
					return &transportError{op: "decode round start", err: err}
				}
				sc.currentRound = p.RoundID
				sc.roundComplete = false
				acc.beginRound()
				a.log.Debug().Int("round", p.RoundID).Str("speaker", p.Speaker).Msg("round started")
				cfg.emit(ProgressEvent{
					Kind:       ProgressRoundStarted,
					RoundID:    p.RoundID,
					Speaker:    p.Speaker,
					Text:       p.Text,
					TotalBytes: acc.total(),
					Attempt:    a.number,
				})

			case eventPodcastRoundResponse:
				// Some deployments wrap audio chunks in JSON.
				var p roundResponsePayload
				if err := json.Unmarshal(msg.payload, &p); err == nil && len(p.Data) > 0 {
					acc.appendChunk(p.Data)
					cfg.emit(ProgressEvent{
						Kind:       ProgressAudio,
						RoundID:    sc.currentRound,
						ChunkBytes: len(p.Data),
						TotalBytes: acc.total(),
						Attempt:    a.number,
					})
				}

			case eventPodcastRoundEnd:
				var p roundEndPayload
				if err := json.Unmarshal(msg.payload, &p); err != nil {
					return &transportError{op: "decode round end", err: err}
				}
				roundID := p.RoundID
				if roundID == 0 && sc.currentRound != 0 {
					// Some payloads omit round_id.
					roundID = sc.currentRound
				}
				if p.IsError {
					acc.discardRound()
					a.log.Warn().Int("round", roundID).Str("error", p.ErrorMsg).Msg("round failed")
					cfg.emit(ProgressEvent{
						Kind:       ProgressRoundFailed,
						RoundID:    roundID,
						TotalBytes: acc.total(),
						Attempt:    a.number,
						Message:    p.ErrorMsg,
					})
					return &roundError{roundID: roundID, msg: p.ErrorMsg}
				}
				acc.commitRound()
				sc.lastRoundID = roundID
				sc.roundComplete = true
				a.log.Debug().Int("round", roundID).Int("duration_ms", p.AudioDuration).Msg("round committed")
				cfg.emit(ProgressEvent{
					Kind:       ProgressRoundFinished,
					RoundID:    roundID,
					TotalBytes: acc.total(),
					Attempt:    a.number,
				})

			case eventPodcastEnd:
				var p podcastEndPayload
				if err := json.Unmarshal(msg.payload, &p); err == nil {
					result.AudioURL = p.MetaInfo.AudioURL
					metrics := p.MetaInfo.InputMetrics
					if metrics != (InputMetrics{}) {
						result.InputMetrics = &metrics
					}
				}

			case eventUsageResponse:
				var p usageResponsePayload
				if err := json.Unmarshal(msg.payload, &p); err == nil {
					usage := p.Usage
					result.Usage = &usage
					cfg.emit(ProgressEvent{
						Kind:       ProgressUsage,
						RoundID:    sc.currentRound,
						TotalBytes: acc.total(),
						Attempt:    a.number,
						Usage:      &usage,
					})
				}

			case eventSessionFailed:
				return a.failureError(msg, "session failed")

			case eventSessionFinished:
				if err := a.transition(stateSessionOpen, stateFinished); err != nil {
					return err
				}
				cfg.emit(ProgressEvent{
					Kind:       ProgressFinished,
					RoundID:    sc.lastRoundID,
					TotalBytes: acc.total(),
					Attempt:    a.number,
				})
				return nil

			default:
				a.log.Debug().Int32("event", msg.event).Msg("ignoring event")
			}
		}
	}
}

// finishConnection tells the server we are done. Best effort: the session
// already finished, a write failure here changes nothing.
func (a *attempt) finishConnection() {
	if a.state != stateFinished {
		return
	}
	_ = a.writeMessage(&message{
		msgType: msgTypeFullClient,
		flags:   msgFlagWithEvent,
		event:   eventFinishConnection,
		payload: []byte("{}"),
	})
}

// close releases the connection. Safe to call in any state.
func (a *attempt) close() {
	if a.conn != nil {
		a.conn.Close()
	}
	a.state = stateClosed
}

// writeMessage marshals and sends one frame.
func (a *attempt) writeMessage(msg *message) error {
	data, err := a.proto.marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if err := a.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return &transportError{op: "write", err: err}
	}
	return nil
}

// readMessage reads one binary frame, skipping non-binary messages.
func (a *attempt) readMessage() (*message, error) {
	for {
		a.conn.SetReadDeadline(time.Now().Add(a.client.config.readTimeout))
		msgType, data, err := a.conn.ReadMessage()
		if err != nil {
			return nil, &transportError{op: "read", err: err}
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		msg, err := a.proto.unmarshal(data)
		if err != nil {
			return nil, &transportError{op: "decode frame", err: err}
		}
		return msg, nil
	}
}

// protocolError converts an error frame into *Error.
func (a *attempt) protocolError(msg *message, round int) *Error {
	e := &Error{
		Code:    int(msg.errorCode),
		TaskID:  a.sessionID,
		RoundID: round,
		Attempt: a.number,
	}
	var p failurePayload
	if json.Unmarshal(msg.payload, &p) == nil {
		if p.Code != 0 {
			e.Code = p.Code
		}
		e.Message = p.Message
		if e.Message == "" {
			e.Message = p.Error
		}
	}
	if e.Message == "" {
		e.Message = string(msg.payload)
	}
	return e
}

// failureError converts a ConnectionFailed / SessionFailed payload into *Error.
func (a *attempt) failureError(msg *message, fallback string) *Error {
	e := &Error{
		TaskID:  a.sessionID,
		RoundID: -1,
		Attempt: a.number,
	}
	var p failurePayload
	if json.Unmarshal(msg.payload, &p) == nil {
		e.Code = p.Code
		e.Message = p.Message
		if e.Message == "" {
			e.Message = p.Error
		}
	}
	if e.Message == "" {
		e.Message = fallback
	}
	return e
}
