package console

import (
	"fmt"
	"io"
	"os"

	"github.com/diillson/gcp-flowlog-audit/internal/shared/types"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Console é uma implementação do ConsoleInterface sobre o pterm.
type Console struct {
	out         io.Writer
	errOut      io.Writer
	quiet       bool
	interactive bool
}

// NewConsole cria um Console escrevendo em stdout/stderr. Spinner e barra de progresso
// só são exibidos quando stdout é um terminal.
func NewConsole() *Console {
	return &Console{
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// NewConsoleWithWriters cria um Console não interativo; usado em testes e pipes.
func NewConsoleWithWriters(out, errOut io.Writer) *Console {
	return &Console{out: out, errOut: errOut}
}

// SetQuiet silencia tudo exceto LogError.
func (c *Console) SetQuiet(quiet bool) {
	c.quiet = quiet
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	if c.quiet {
		return
	}
	fmt.Fprint(c.out, a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	pterm.Info.WithWriter(c.out).Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	pterm.Warning.WithWriter(c.out).Printfln(format, a...)
}

// LogError registra uma mensagem de erro. Nunca é silenciado.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.WithWriter(c.errOut).Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	pterm.Success.WithWriter(c.out).Printfln(format, a...)
}

// Cores predefinidas para uso consistente
var (
	BoldRed    = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	if c.quiet || !c.interactive {
		return &statusHandle{}
	}
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.out).Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso com total fixo.
func (c *Console) ProgressWithTotal(total int, title string) types.ProgressHandle {
	if c.quiet || !c.interactive || total <= 0 {
		return &progressHandle{}
	}
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithWriter(c.out).
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(true).
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	if h.bar != nil {
		_, _ = h.bar.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}
