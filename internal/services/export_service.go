package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/repository"
)

const exportSheetName = "Tasks"

var exportColumns = []struct {
	header string
	width  float64
	value  func(t models.Task) interface{}
}{
	{"Title", 28, func(t models.Task) interface{} { return t.Title }},
	{"Description", 38, func(t models.Task) interface{} { return t.Description }},
	{"Due Date", 14, func(t models.Task) interface{} { return t.DueDate.Format("2006-01-02") }},
	{"Priority", 10, func(t models.Task) interface{} { return string(t.Priority) }},
	{"Category", 14, func(t models.Task) interface{} { return t.Category }},
	{"Location", 16, func(t models.Task) interface{} { return t.Location }},
	{"Reminder", 12, func(t models.Task) interface{} { return t.Reminder }},
	{"Tag", 12, func(t models.Task) interface{} { return t.Tag }},
	{"Assigned To", 24, func(t models.Task) interface{} { return t.AssignTo }},
	{"Owner", 24, func(t models.Task) interface{} { return t.OwnerEmail }},
	{"Complete", 10, func(t models.Task) interface{} { return t.Complete }},
}

// ExportService renders tasks as an xlsx workbook
type ExportService struct {
	taskRepo repository.TaskRepository
}

// NewExportService creates a new ExportService
func NewExportService(taskRepo repository.TaskRepository) *ExportService {
	return &ExportService{taskRepo: taskRepo}
}

// WriteTasks writes every task to w as a single-sheet workbook.
func (s *ExportService) WriteTasks(ctx context.Context, w io.Writer) (int, error) {
	tasks, _, err := s.taskRepo.List(ctx, repository.TaskFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return 0, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, err
	}

	sw, err := f.NewStreamWriter(exportSheetName)
	if err != nil {
		return 0, err
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.header}
		if err := sw.SetColWidth(i+1, i+1, col.width); err != nil {
			return 0, err
		}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return 0, err
	}

	for i, task := range tasks {
		row := make([]interface{}, len(exportColumns))
		for j, col := range exportColumns {
			row[j] = col.value(task)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return 0, err
		}
	}

	if err := sw.Flush(); err != nil {
		return 0, err
	}
	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	return len(tasks), nil
}
