package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	frameConnected = "connected"
	frameError     = "error"
	frameRead      = "read"
	frameReadAck   = "read.ack"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are enforced by the CORS layer and the bearer token
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type outboundFrame struct {
	Type           string         `json:"type"`
	ConnectionID   string         `json:"connection_id,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	MarkedCount    *int           `json:"marked_count,omitempty"`
	Error          *errorResponse `json:"error,omitempty"`
}

// handleWebsocket streams realtime events for the signed-in user and accepts
// read receipts from the client.
func (s *Server) handleWebsocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		log := s.Logger.WithField("user_id", userID)

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.WithError(err).Warn("Websocket upgrade failed")
			return
		}

		conn := NewConnection(userID, ws)
		conn.Start()
		defer conn.Close(websocket.CloseNormalClosure, "bye")

		detach, err := s.Sessions.Attach(c.Request.Context(), userID, func(evt realtime.Event) {
			payload, err := json.Marshal(evt)
			if err != nil {
				log.WithError(err).Error("Failed to encode realtime event")
				return
			}
			if err := conn.Send(payload); err != nil {
				log.WithError(err).Debug("Dropped realtime event")
			}
		})
		if err != nil {
			s.sendFrame(conn, outboundFrame{Type: frameError, Error: errorPayload(apperrors.Network("realtime unavailable", err))})
			return
		}
		defer detach()

		s.sendFrame(conn, outboundFrame{Type: frameConnected, ConnectionID: conn.ID})
		log.WithField("connection_id", conn.ID).Info("Websocket connected")

		s.readLoop(c, conn, log)
	}
}

func (s *Server) readLoop(c *gin.Context, conn *Connection, log *logrus.Entry) {
	ws := conn.ws
	ws.SetReadLimit(maxReadSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("Websocket closed unexpectedly")
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			s.sendFrame(conn, outboundFrame{Type: frameError, Error: errorPayload(apperrors.Validation("malformed frame"))})
			continue
		}

		switch frame.Type {
		case frameRead:
			count, err := s.Chat.MarkConversationRead(c.Request.Context(), frame.ConversationID, conn.UserID)
			if err != nil {
				s.sendFrame(conn, outboundFrame{Type: frameError, ConversationID: frame.ConversationID, Error: errorPayload(err)})
				continue
			}
			s.sendFrame(conn, outboundFrame{Type: frameReadAck, ConversationID: frame.ConversationID, MarkedCount: &count})
		default:
			s.sendFrame(conn, outboundFrame{Type: frameError, Error: errorPayload(apperrors.Validation("unknown frame type"))})
		}
	}
}

func (s *Server) sendFrame(conn *Connection, frame outboundFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}

func errorPayload(err error) *errorResponse {
	body := errorBody(err)
	return &body
}
