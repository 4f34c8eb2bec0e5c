package protocol

import "sort"

// Kind is the closed set of frame categories the relay routes on.
type Kind int

const (
	KindUnknown Kind = iota
	KindCommand
	KindResult
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindResult:
		return "result"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Command frame types (caller -> relay -> host).
const (
	TypeInsertAndExecuteCell = "insert_and_execute_cell"
	TypeSaveNotebook         = "save_notebook"
	TypeGetCellsInfo         = "get_cells_info"
	TypeGetNotebookInfo      = "get_notebook_info"
	TypeRunCell              = "run_cell"
	TypeRunAllCells          = "run_all_cells"
	TypeGetCellTextOutput    = "get_cell_text_output"
	TypeGetCellImageOutput   = "get_cell_image_output"
	TypeEditCellContent      = "edit_cell_content"
	TypeSetSlideshowType     = "set_slideshow_type"
)

// Result frame types (host -> relay -> callers).
const (
	TypeInsertCellResult         = "insert_cell_result"
	TypeSaveResult               = "save_result"
	TypeCellsInfoResult          = "cells_info_result"
	TypeNotebookInfoResult       = "notebook_info_result"
	TypeRunCellResult            = "run_cell_result"
	TypeRunAllCellsResult        = "run_all_cells_result"
	TypeGetCellTextOutputResult  = "get_cell_text_output_result"
	TypeGetCellImageOutputResult = "get_cell_image_output_result"
	TypeEditCellResult           = "edit_cell_result"
	TypeSetSlideshowTypeResult   = "set_slideshow_type_result"
)

// TypeError answers any command on failure and is also the shape the relay
// synthesizes when no host is connected.
const TypeError = "error"

// commandResults is the static command table: each caller command mapped to
// the result type that answers it. Every command is additionally answerable
// by TypeError.
var commandResults = map[string]string{
	TypeInsertAndExecuteCell: TypeInsertCellResult,
	TypeSaveNotebook:         TypeSaveResult,
	TypeGetCellsInfo:         TypeCellsInfoResult,
	TypeGetNotebookInfo:      TypeNotebookInfoResult,
	TypeRunCell:              TypeRunCellResult,
	TypeRunAllCells:          TypeRunAllCellsResult,
	TypeGetCellTextOutput:    TypeGetCellTextOutputResult,
	TypeGetCellImageOutput:   TypeGetCellImageOutputResult,
	TypeEditCellContent:      TypeEditCellResult,
	TypeSetSlideshowType:     TypeSetSlideshowTypeResult,
}

var resultTypes = invertCommandTable()

func invertCommandTable() map[string]struct{} {
	out := make(map[string]struct{}, len(commandResults))
	for _, resultType := range commandResults {
		out[resultType] = struct{}{}
	}
	return out
}

// Classify maps a frame type tag onto the closed Kind set. Anything outside
// the command table is KindUnknown, which routing treats as
// unsupported-but-non-fatal.
func Classify(msgType string) Kind {
	if msgType == TypeError {
		return KindError
	}
	if _, ok := commandResults[msgType]; ok {
		return KindCommand
	}
	if _, ok := resultTypes[msgType]; ok {
		return KindResult
	}
	return KindUnknown
}

// ResultTypeFor returns the result type answering the given command type.
func ResultTypeFor(commandType string) (string, bool) {
	resultType, ok := commandResults[commandType]
	return resultType, ok
}

// CommandTypes returns the command set in sorted order.
func CommandTypes() []string {
	out := make([]string, 0, len(commandResults))
	for commandType := range commandResults {
		out = append(out, commandType)
	}
	sort.Strings(out)
	return out
}
