package nbhost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/cellwire/cellwire/internal/protocol"
)

var (
	ErrRelayURLRequired = errors.New("nbhost: relay url required")
	ErrExecutorRequired = errors.New("nbhost: executor required")
	ErrNotConnected     = errors.New("nbhost: not connected")
)

// Config shapes one host session.
type Config struct {
	// URL is the relay websocket endpoint, e.g. ws://127.0.0.1:8765/ws.
	URL string
	// DialTimeout bounds the websocket handshake.
	DialTimeout time.Duration
}

func DefaultConfig(url string) Config {
	return Config{URL: url, DialTimeout: 5 * time.Second}
}

// Session is one host-side connection: it registers with role "host" and
// answers every command frame through the Executor.
type Session struct {
	cfg  Config
	exec Executor

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func NewSession(cfg Config, exec Executor) (*Session, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrRelayURLRequired
	}
	if exec == nil {
		return nil, ErrExecutorRequired
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	return &Session{cfg: cfg, exec: exec}, nil
}

// Connect dials the relay and performs the host handshake.
func (s *Session) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.DialTimeout}
	ws, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return err
	}
	hs, err := protocol.EncodeHandshake(protocol.RoleHost)
	if err != nil {
		_ = ws.Close()
		return err
	}
	if err := ws.WriteMessage(websocket.TextMessage, hs); err != nil {
		_ = ws.Close()
		return err
	}
	s.mu.Lock()
	s.conn = ws
	s.mu.Unlock()
	log.Info().Str("url", s.cfg.URL).Msg("nbhost: registered as host")
	return nil
}

// Run reads command frames until ctx is cancelled or the socket closes.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	ws := s.conn
	s.mu.Unlock()
	if ws == nil {
		return ErrNotConnected
	}

	go func() {
		<-ctx.Done()
		_ = ws.Close()
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		answer := s.answer(data)
		if answer == nil {
			continue
		}
		s.writeMu.Lock()
		err = ws.WriteMessage(websocket.TextMessage, answer)
		s.writeMu.Unlock()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Close tears down the session socket.
func (s *Session) Close() error {
	s.mu.Lock()
	ws := s.conn
	s.conn = nil
	s.mu.Unlock()
	if ws == nil {
		return nil
	}
	return ws.Close()
}

// answer executes one command frame and encodes the tagged result, or nil
// when the frame deserves no reply.
func (s *Session) answer(data []byte) []byte {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		log.Warn().Err(err).Msg("nbhost: dropping unparseable frame")
		return nil
	}
	if env.Kind != protocol.KindCommand {
		log.Debug().Str("type", env.Type).Msg("nbhost: ignoring non-command frame")
		return nil
	}

	result, err := s.execute(env)
	if err != nil {
		return encodeFrame(protocol.NewErrorFrame(env.RequestID, err.Error()))
	}
	return result
}

func (s *Session) execute(env protocol.Envelope) ([]byte, error) {
	switch env.Type {
	case protocol.TypeInsertAndExecuteCell:
		var cmd protocol.InsertAndExecuteCellCommand
		if err := json.Unmarshal(env.Raw, &cmd); err != nil {
			return nil, err
		}
		index, output, err := s.exec.InsertAndExecuteCell(cmd.CellType, cmd.Position, cmd.Content)
		if err != nil {
			return nil, err
		}
		return encodeFrame(protocol.InsertCellResult{
			Type:      protocol.TypeInsertCellResult,
			RequestID: env.RequestID,
			Status:    protocol.StatusSuccess,
			Index:     index,
			Output:    output,
		}), nil

	case protocol.TypeSaveNotebook:
		path, err := s.exec.SaveNotebook()
		if err != nil {
			return nil, err
		}
		return encodeFrame(protocol.SaveResult{
			Type:      protocol.TypeSaveResult,
			RequestID: env.RequestID,
			Status:    protocol.StatusSuccess,
			Path:      path,
		}), nil

	case protocol.TypeGetCellsInfo:
		cells, err := s.exec.CellsInfo()
		if err != nil {
			return nil, err
		}
		return encodeFrame(protocol.CellsInfoResult{
			Type:      protocol.TypeCellsInfoResult,
			RequestID: env.RequestID,
			Status:    protocol.StatusSuccess,
			Cells:     cells,
		}), nil

	case protocol.TypeGetNotebookInfo:
		info, err := s.exec.NotebookInfo()
		if err != nil {
			return nil, err
		}
		return encodeFrame(protocol.NotebookInfoResult{
			Type:       protocol.TypeNotebookInfoResult,
			RequestID:  env.RequestID,
			Status:     protocol.StatusSuccess,
			Name:       info.Name,
			CellCount:  info.CellCount,
			KernelName: info.KernelName,
		}), nil

	case protocol.TypeRunCell:
		var cmd protocol.RunCellCommand
		if err := json.Unmarshal(env.Raw, &cmd); err != nil {
			return nil, err
		}
		output, err := s.exec.RunCell(cmd.Index)
		if err != nil {
			return nil, err
		}
		return encodeFrame(protocol.RunCellResult{
			Type:      protocol.TypeRunCellResult,
			RequestID: env.RequestID,
			Status:    protocol.StatusSuccess,
			Index:     cmd.Index,
			Output:    output,
		}), nil

	case protocol.TypeRunAllCells:
		count, err := s.exec.RunAllCells()
		if err != nil {
			return nil, err
		}
		return encodeFrame(protocol.RunAllCellsResult{
			Type:      protocol.TypeRunAllCellsResult,
			RequestID: env.RequestID,
			Status:    protocol.StatusSuccess,
			CellCount: count,
		}), nil

	case protocol.TypeGetCellTextOutput:
		var cmd protocol.GetCellTextOutputCommand
		if err := json.Unmarshal(env.Raw, &cmd); err != nil {
			return nil, err
		}
		output, truncated, err := s.exec.CellTextOutput(cmd.Index, cmd.MaxLength)
		if err != nil {
			return nil, err
		}
		return encodeFrame(protocol.GetCellTextOutputResult{
			Type:      protocol.TypeGetCellTextOutputResult,
			RequestID: env.RequestID,
			Status:    protocol.StatusSuccess,
			Index:     cmd.Index,
			Output:    output,
			Truncated: truncated,
		}), nil

	case protocol.TypeGetCellImageOutput:
		var cmd protocol.GetCellImageOutputCommand
		if err := json.Unmarshal(env.Raw, &cmd); err != nil {
			return nil, err
		}
		images, err := s.exec.CellImageOutput(cmd.Index)
		if err != nil {
			return nil, err
		}
		return encodeFrame(protocol.GetCellImageOutputResult{
			Type:      protocol.TypeGetCellImageOutputResult,
			RequestID: env.RequestID,
			Status:    protocol.StatusSuccess,
			Index:     cmd.Index,
			Images:    images,
		}), nil

	case protocol.TypeEditCellContent:
		var cmd protocol.EditCellContentCommand
		if err := json.Unmarshal(env.Raw, &cmd); err != nil {
			return nil, err
		}
		output, err := s.exec.EditCellContent(cmd.Index, cmd.Content, cmd.Execute)
		if err != nil {
			return nil, err
		}
		return encodeFrame(protocol.EditCellResult{
			Type:      protocol.TypeEditCellResult,
			RequestID: env.RequestID,
			Status:    protocol.StatusSuccess,
			Index:     cmd.Index,
			Output:    output,
		}), nil

	case protocol.TypeSetSlideshowType:
		var cmd protocol.SetSlideshowTypeCommand
		if err := json.Unmarshal(env.Raw, &cmd); err != nil {
			return nil, err
		}
		if err := s.exec.SetSlideshowType(cmd.Index, cmd.SlideshowType); err != nil {
			return nil, err
		}
		return encodeFrame(protocol.SetSlideshowTypeResult{
			Type:          protocol.TypeSetSlideshowTypeResult,
			RequestID:     env.RequestID,
			Status:        protocol.StatusSuccess,
			Index:         cmd.Index,
			SlideshowType: cmd.SlideshowType,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported command: %s", env.Type)
	}
}

func encodeFrame(v any) []byte {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("nbhost: encode frame")
		return nil
	}
	return payload
}
