package protocol

import (
	"encoding/json"
	"fmt"
)

// Result statuses carried in result frames.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// NoHostMessage is the exact error message the relay synthesizes when a
// command arrives while no host is registered.
const NoHostMessage = "No notebook client connected"

// ErrorFrame answers a command on failure. The relay synthesizes one with
// NoHostMessage; the host emits them for command-level failures.
type ErrorFrame struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

func NewErrorFrame(requestID, message string) ErrorFrame {
	return ErrorFrame{Type: TypeError, RequestID: requestID, Message: message}
}

func NewNoHostErrorFrame(requestID string) ErrorFrame {
	return NewErrorFrame(requestID, NoHostMessage)
}

// Result is the generic caller-side view of any answering frame. Raw holds
// the complete frame so callers can decode command-specific fields.
type Result struct {
	Type      string
	RequestID string
	Status    string
	Message   string
	Raw       json.RawMessage
}

type wireResult struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// DecodeResult parses the answering frame tags; command-specific fields stay
// in Raw until Decode is called.
func DecodeResult(data []byte) (Result, error) {
	var wire wireResult
	if err := json.Unmarshal(data, &wire); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return Result{
		Type:      wire.Type,
		RequestID: wire.RequestID,
		Status:    wire.Status,
		Message:   wire.Message,
		Raw:       raw,
	}, nil
}

// IsError reports whether the frame answers the command as a failure. Error
// frames resolve the waiting call as a failed result, never as a transport
// fault.
func (r Result) IsError() bool {
	return r.Type == TypeError || r.Status == StatusError
}

// Decode unmarshals the full frame into a command-specific result struct.
func (r Result) Decode(v any) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return nil
}

// CellInfo summarizes one cell for cells_info_result.
type CellInfo struct {
	Index          int    `json:"index"`
	CellType       string `json:"cell_type"`
	Content        string `json:"content"`
	ExecutionCount int    `json:"execution_count,omitempty"`
	HasOutput      bool   `json:"has_output"`
}

// ImageOutput is one image attachment in get_cell_image_output_result.
type ImageOutput struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// InsertCellResult answers insert_and_execute_cell.
type InsertCellResult struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Index     int    `json:"index"`
	Output    string `json:"output,omitempty"`
}

// SaveResult answers save_notebook.
type SaveResult struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Path      string `json:"path,omitempty"`
}

// CellsInfoResult answers get_cells_info.
type CellsInfoResult struct {
	Type      string     `json:"type"`
	RequestID string     `json:"request_id"`
	Status    string     `json:"status"`
	Cells     []CellInfo `json:"cells"`
}

// NotebookInfoResult answers get_notebook_info.
type NotebookInfoResult struct {
	Type       string `json:"type"`
	RequestID  string `json:"request_id"`
	Status     string `json:"status"`
	Name       string `json:"name"`
	CellCount  int    `json:"cell_count"`
	KernelName string `json:"kernel_name,omitempty"`
}

// RunCellResult answers run_cell.
type RunCellResult struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Index     int    `json:"index"`
	Output    string `json:"output,omitempty"`
}

// RunAllCellsResult answers run_all_cells.
type RunAllCellsResult struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	CellCount int    `json:"cell_count"`
}

// GetCellTextOutputResult answers get_cell_text_output.
type GetCellTextOutputResult struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Index     int    `json:"index"`
	Output    string `json:"output"`
	Truncated bool   `json:"truncated"`
}

// GetCellImageOutputResult answers get_cell_image_output.
type GetCellImageOutputResult struct {
	Type      string        `json:"type"`
	RequestID string        `json:"request_id"`
	Status    string        `json:"status"`
	Index     int           `json:"index"`
	Images    []ImageOutput `json:"images"`
}

// EditCellResult answers edit_cell_content.
type EditCellResult struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Index     int    `json:"index"`
	Output    string `json:"output,omitempty"`
}

// SetSlideshowTypeResult answers set_slideshow_type.
type SetSlideshowTypeResult struct {
	Type          string `json:"type"`
	RequestID     string `json:"request_id"`
	Status        string `json:"status"`
	Index         int    `json:"index"`
	SlideshowType string `json:"slideshow_type"`
}
