package caller

import (
	"context"

	"github.com/google/uuid"

	"github.com/cellwire/cellwire/internal/protocol"
)

// Each method generates a fresh request_id, sends exactly one command frame,
// and waits for the matching result or error. An error-typed answer comes
// back as a Result with IsError() true, not as a Go error, so callers can
// branch on status.

func (c *Client) InsertAndExecuteCell(ctx context.Context, cellType string, position int, content string) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewInsertAndExecuteCellCommand(requestID, cellType, position, content))
}

func (c *Client) SaveNotebook(ctx context.Context) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewSaveNotebookCommand(requestID))
}

func (c *Client) GetCellsInfo(ctx context.Context) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewGetCellsInfoCommand(requestID))
}

func (c *Client) GetNotebookInfo(ctx context.Context) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewGetNotebookInfoCommand(requestID))
}

func (c *Client) RunCell(ctx context.Context, index int) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewRunCellCommand(requestID, index))
}

func (c *Client) RunAllCells(ctx context.Context) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewRunAllCellsCommand(requestID))
}

func (c *Client) GetCellTextOutput(ctx context.Context, index, maxLength int) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewGetCellTextOutputCommand(requestID, index, maxLength))
}

func (c *Client) GetCellImageOutput(ctx context.Context, index int) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewGetCellImageOutputCommand(requestID, index))
}

func (c *Client) EditCellContent(ctx context.Context, index int, content string, execute bool) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewEditCellContentCommand(requestID, index, content, execute))
}

func (c *Client) SetSlideshowType(ctx context.Context, index int, slideshowType string) (protocol.Result, error) {
	requestID := uuid.NewString()
	return c.do(ctx, requestID, protocol.NewSetSlideshowTypeCommand(requestID, index, slideshowType))
}
