package protocol

import "strings"

// InsertAndExecuteCellCommand inserts a cell at a position and executes it.
type InsertAndExecuteCellCommand struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	CellType  string `json:"cell_type"`
	Position  int    `json:"position"`
	Content   string `json:"content"`
}

func NewInsertAndExecuteCellCommand(requestID, cellType string, position int, content string) InsertAndExecuteCellCommand {
	return InsertAndExecuteCellCommand{
		Type:      TypeInsertAndExecuteCell,
		RequestID: requestID,
		CellType:  cellType,
		Position:  position,
		Content:   content,
	}
}

func (c InsertAndExecuteCellCommand) Validate() error {
	if err := requireRequestID(c.RequestID); err != nil {
		return err
	}
	if strings.TrimSpace(c.CellType) == "" {
		return ErrEmptyCellType
	}
	return nil
}

// SaveNotebookCommand persists the notebook to disk on the host side.
type SaveNotebookCommand struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
}

func NewSaveNotebookCommand(requestID string) SaveNotebookCommand {
	return SaveNotebookCommand{Type: TypeSaveNotebook, RequestID: requestID}
}

func (c SaveNotebookCommand) Validate() error {
	return requireRequestID(c.RequestID)
}

// GetCellsInfoCommand lists every cell with its type and content summary.
type GetCellsInfoCommand struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
}

func NewGetCellsInfoCommand(requestID string) GetCellsInfoCommand {
	return GetCellsInfoCommand{Type: TypeGetCellsInfo, RequestID: requestID}
}

func (c GetCellsInfoCommand) Validate() error {
	return requireRequestID(c.RequestID)
}

// GetNotebookInfoCommand reports notebook-level metadata.
type GetNotebookInfoCommand struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
}

func NewGetNotebookInfoCommand(requestID string) GetNotebookInfoCommand {
	return GetNotebookInfoCommand{Type: TypeGetNotebookInfo, RequestID: requestID}
}

func (c GetNotebookInfoCommand) Validate() error {
	return requireRequestID(c.RequestID)
}

// RunCellCommand executes the cell at the given index.
type RunCellCommand struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Index     int    `json:"index"`
}

func NewRunCellCommand(requestID string, index int) RunCellCommand {
	return RunCellCommand{Type: TypeRunCell, RequestID: requestID, Index: index}
}

func (c RunCellCommand) Validate() error {
	if err := requireRequestID(c.RequestID); err != nil {
		return err
	}
	return requireIndex(c.Index)
}

// RunAllCellsCommand executes every cell in order.
type RunAllCellsCommand struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
}

func NewRunAllCellsCommand(requestID string) RunAllCellsCommand {
	return RunAllCellsCommand{Type: TypeRunAllCells, RequestID: requestID}
}

func (c RunAllCellsCommand) Validate() error {
	return requireRequestID(c.RequestID)
}

// GetCellTextOutputCommand fetches the text output of one cell, truncated to
// MaxLength runes.
type GetCellTextOutputCommand struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Index     int    `json:"index"`
	MaxLength int    `json:"max_length"`
}

func NewGetCellTextOutputCommand(requestID string, index, maxLength int) GetCellTextOutputCommand {
	return GetCellTextOutputCommand{
		Type:      TypeGetCellTextOutput,
		RequestID: requestID,
		Index:     index,
		MaxLength: maxLength,
	}
}

func (c GetCellTextOutputCommand) Validate() error {
	if err := requireRequestID(c.RequestID); err != nil {
		return err
	}
	if err := requireIndex(c.Index); err != nil {
		return err
	}
	if c.MaxLength <= 0 {
		return ErrInvalidMaxLength
	}
	return nil
}

// GetCellImageOutputCommand fetches image outputs of one cell.
type GetCellImageOutputCommand struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Index     int    `json:"index"`
}

func NewGetCellImageOutputCommand(requestID string, index int) GetCellImageOutputCommand {
	return GetCellImageOutputCommand{Type: TypeGetCellImageOutput, RequestID: requestID, Index: index}
}

func (c GetCellImageOutputCommand) Validate() error {
	if err := requireRequestID(c.RequestID); err != nil {
		return err
	}
	return requireIndex(c.Index)
}

// EditCellContentCommand replaces the content of one cell and optionally
// re-executes it.
type EditCellContentCommand struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Index     int    `json:"index"`
	Content   string `json:"content"`
	Execute   bool   `json:"execute"`
}

func NewEditCellContentCommand(requestID string, index int, content string, execute bool) EditCellContentCommand {
	return EditCellContentCommand{
		Type:      TypeEditCellContent,
		RequestID: requestID,
		Index:     index,
		Content:   content,
		Execute:   execute,
	}
}

func (c EditCellContentCommand) Validate() error {
	if err := requireRequestID(c.RequestID); err != nil {
		return err
	}
	return requireIndex(c.Index)
}

// SetSlideshowTypeCommand tags one cell with a slideshow type.
type SetSlideshowTypeCommand struct {
	Type          string `json:"type"`
	RequestID     string `json:"request_id"`
	Index         int    `json:"index"`
	SlideshowType string `json:"slideshow_type"`
}

func NewSetSlideshowTypeCommand(requestID string, index int, slideshowType string) SetSlideshowTypeCommand {
	return SetSlideshowTypeCommand{
		Type:          TypeSetSlideshowType,
		RequestID:     requestID,
		Index:         index,
		SlideshowType: slideshowType,
	}
}

func (c SetSlideshowTypeCommand) Validate() error {
	if err := requireRequestID(c.RequestID); err != nil {
		return err
	}
	return requireIndex(c.Index)
}

func requireRequestID(requestID string) error {
	if strings.TrimSpace(requestID) == "" {
		return ErrMissingRequestID
	}
	return nil
}

func requireIndex(index int) error {
	if index < 0 {
		return ErrInvalidCellIndex
	}
	return nil
}
