package nbhost

import "github.com/cellwire/cellwire/internal/protocol"

// NotebookInfo is the metadata answering get_notebook_info.
type NotebookInfo struct {
	Name       string
	CellCount  int
	KernelName string
}

// Executor is the command boundary. Every method maps to one command type;
// a returned error becomes an error frame echoing the request_id.
type Executor interface {
	InsertAndExecuteCell(cellType string, position int, content string) (index int, output string, err error)
	SaveNotebook() (path string, err error)
	CellsInfo() ([]protocol.CellInfo, error)
	NotebookInfo() (NotebookInfo, error)
	RunCell(index int) (output string, err error)
	RunAllCells() (cellCount int, err error)
	CellTextOutput(index, maxLength int) (output string, truncated bool, err error)
	CellImageOutput(index int) ([]protocol.ImageOutput, error)
	EditCellContent(index int, content string, execute bool) (output string, err error)
	SetSlideshowType(index int, slideshowType string) error
}
