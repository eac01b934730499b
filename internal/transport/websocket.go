package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second
)

// WSChannel is the websocket implementation of Channel.
type WSChannel struct {
	conn   *websocket.Conn
	events chan Event
	log    zerolog.Logger

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

// DialOptions configures the websocket connection to the game server.
type DialOptions struct {
	// URL is the websocket endpoint, e.g. wss://host/ws?room=CODE.
	URL string
	// AuthToken, when set, is sent as a bearer Authorization header.
	AuthToken string
	Logger    zerolog.Logger
}

// Dial connects to the game server and starts the read loop.
func Dial(ctx context.Context, opts DialOptions) (*WSChannel, error) {
	header := http.Header{}
	if opts.AuthToken != "" {
		header.Set("Authorization", "Bearer "+opts.AuthToken)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, opts.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", opts.URL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", opts.URL, err)
	}

	c := &WSChannel{
		conn:   conn,
		events: make(chan Event, 16),
		log:    opts.Logger,
		done:   make(chan struct{}),
	}
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	go c.readLoop()
	go c.pingLoop()
	return c, nil
}

// Events yields decoded inbound notifications.
func (c *WSChannel) Events() <-chan Event { return c.events }

// SubmitScore emits the outbound score message.
func (c *WSChannel) SubmitScore(roomCode string, points int) error {
	data, err := json.Marshal(SubmitScore{RoomCode: roomCode, Points: points})
	if err != nil {
		return fmt.Errorf("encode submit score: %w", err)
	}
	return c.write(Envelope{Event: EventSubmitScore, Data: data})
}

// Close tears the connection down and closes the event stream.
func (c *WSChannel) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *WSChannel) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("write %s: %w", env.Event, err)
	}
	return nil
}

func (c *WSChannel) readLoop() {
	defer close(c.events)
	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn().Err(err).Msg("transport read loop ended")
			}
			return
		}
		ev, err := decodeEvent(env)
		if err != nil {
			c.log.Warn().Err(err).Str("event", env.Event).Msg("dropping undecodable event")
			continue
		}
		if ev.Kind == "" {
			// Unknown event kinds are not an error; newer servers may
			// emit messages this client does not care about.
			continue
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

func (c *WSChannel) pingLoop() {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.writeMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func decodeEvent(env Envelope) (Event, error) {
	switch env.Event {
	case EventRoundStart:
		var rs RoundStart
		if err := json.Unmarshal(env.Data, &rs); err != nil {
			return Event{}, fmt.Errorf("decode round start: %w", err)
		}
		return Event{Kind: EventRoundStart, RoundStart: &rs}, nil
	case EventScoresUpdated:
		var su ScoresUpdated
		if err := json.Unmarshal(env.Data, &su); err != nil {
			return Event{}, fmt.Errorf("decode scores update: %w", err)
		}
		return Event{Kind: EventScoresUpdated, Scores: &su}, nil
	case EventResults:
		var res Results
		if err := json.Unmarshal(env.Data, &res); err != nil {
			return Event{}, fmt.Errorf("decode results: %w", err)
		}
		return Event{Kind: EventResults, Results: &res}, nil
	case EventPlayerOffline:
		var po PlayerOffline
		if err := json.Unmarshal(env.Data, &po); err != nil {
			return Event{}, fmt.Errorf("decode player offline: %w", err)
		}
		return Event{Kind: EventPlayerOffline, Offline: &po}, nil
	default:
		return Event{}, nil
	}
}
