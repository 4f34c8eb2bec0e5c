package nbhost

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cellwire/cellwire/internal/protocol"
)

var ErrCellIndexOutOfRange = errors.New("nbhost: cell index out of range")

type memoryCell struct {
	cellType       string
	content        string
	slideshowType  string
	textOutput     string
	images         []protocol.ImageOutput
	executionCount int
}

// MemoryNotebook is an Executor over an in-memory cell list. Execution is
// simulated: running a code cell bumps its execution counter and, when no
// output was seeded, synthesizes one from the content.
type MemoryNotebook struct {
	mu      sync.Mutex
	name    string
	kernel  string
	cells   []*memoryCell
	execSeq int
	saves   int
}

func NewMemoryNotebook(name string) *MemoryNotebook {
	return &MemoryNotebook{name: name, kernel: "python3"}
}

func (n *MemoryNotebook) InsertAndExecuteCell(cellType string, position int, content string) (int, string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if strings.TrimSpace(cellType) == "" {
		cellType = "code"
	}
	cell := &memoryCell{cellType: cellType, content: content}
	// Out-of-range positions clamp to append, matching position-omitted
	// inserts from callers.
	if position < 0 || position > len(n.cells) {
		position = len(n.cells)
	}
	n.cells = append(n.cells, nil)
	copy(n.cells[position+1:], n.cells[position:])
	n.cells[position] = cell
	output := n.runLocked(cell)
	return position, output, nil
}

func (n *MemoryNotebook) SaveNotebook() (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.saves++
	return n.name + ".ipynb", nil
}

func (n *MemoryNotebook) CellsInfo() ([]protocol.CellInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]protocol.CellInfo, 0, len(n.cells))
	for i, cell := range n.cells {
		out = append(out, protocol.CellInfo{
			Index:          i,
			CellType:       cell.cellType,
			Content:        cell.content,
			ExecutionCount: cell.executionCount,
			HasOutput:      cell.textOutput != "" || len(cell.images) > 0,
		})
	}
	return out, nil
}

func (n *MemoryNotebook) NotebookInfo() (NotebookInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return NotebookInfo{
		Name:       n.name,
		CellCount:  len(n.cells),
		KernelName: n.kernel,
	}, nil
}

func (n *MemoryNotebook) RunCell(index int) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cell, err := n.cellLocked(index)
	if err != nil {
		return "", err
	}
	return n.runLocked(cell), nil
}

func (n *MemoryNotebook) RunAllCells() (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, cell := range n.cells {
		n.runLocked(cell)
	}
	return len(n.cells), nil
}

func (n *MemoryNotebook) CellTextOutput(index, maxLength int) (string, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cell, err := n.cellLocked(index)
	if err != nil {
		return "", false, err
	}
	output := cell.textOutput
	runes := []rune(output)
	if maxLength > 0 && len(runes) > maxLength {
		return string(runes[:maxLength]), true, nil
	}
	return output, false, nil
}

func (n *MemoryNotebook) CellImageOutput(index int) ([]protocol.ImageOutput, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cell, err := n.cellLocked(index)
	if err != nil {
		return nil, err
	}
	out := make([]protocol.ImageOutput, len(cell.images))
	copy(out, cell.images)
	return out, nil
}

func (n *MemoryNotebook) EditCellContent(index int, content string, execute bool) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cell, err := n.cellLocked(index)
	if err != nil {
		return "", err
	}
	cell.content = content
	cell.textOutput = ""
	cell.images = nil
	if !execute {
		return "", nil
	}
	return n.runLocked(cell), nil
}

func (n *MemoryNotebook) SetSlideshowType(index int, slideshowType string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	cell, err := n.cellLocked(index)
	if err != nil {
		return err
	}
	cell.slideshowType = slideshowType
	return nil
}

// SeedCellOutput backfills outputs on an existing cell, for tests and demos.
func (n *MemoryNotebook) SeedCellOutput(index int, text string, images ...protocol.ImageOutput) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	cell, err := n.cellLocked(index)
	if err != nil {
		return err
	}
	cell.textOutput = text
	cell.images = append([]protocol.ImageOutput(nil), images...)
	return nil
}

// SaveCount reports how many save_notebook commands have been executed.
func (n *MemoryNotebook) SaveCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.saves
}

func (n *MemoryNotebook) cellLocked(index int) (*memoryCell, error) {
	if index < 0 || index >= len(n.cells) {
		return nil, fmt.Errorf("%w: index=%d cells=%d", ErrCellIndexOutOfRange, index, len(n.cells))
	}
	return n.cells[index], nil
}

func (n *MemoryNotebook) runLocked(cell *memoryCell) string {
	if cell.cellType != "code" {
		return ""
	}
	n.execSeq++
	cell.executionCount = n.execSeq
	if cell.textOutput == "" {
		cell.textOutput = simulateOutput(cell.content)
	}
	return cell.textOutput
}

func simulateOutput(content string) string {
	line := content
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	return "executed: " + line
}
