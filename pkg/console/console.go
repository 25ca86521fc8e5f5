package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/diillson/bigrivercalc-go/internal/shared/types"
	"github.com/pterm/pterm"
)

// Níveis de log aceitos pelo Console, do mais ao menos verboso.
var levelRank = map[string]int{
	"debug":   0,
	"info":    1,
	"warn":    2,
	"warning": 2,
	"error":   3,
}

// Console é uma implementação do ConsoleInterface.
// O relatório vai para out; logs e spinner vão para errOut, para não sujar pipes.
type Console struct {
	out         io.Writer
	errOut      io.Writer
	minLevel    int
	interactive bool

	info    *pterm.PrefixPrinter
	warning *pterm.PrefixPrinter
	failure *pterm.PrefixPrinter
	success *pterm.PrefixPrinter
}

// Options configura um Console. Writers nulos caem para stdout/stderr.
type Options struct {
	Out      io.Writer
	ErrOut   io.Writer
	LogLevel string
	// Interactive habilita o spinner; desligado quando stderr não é um TTY.
	Interactive bool
}

// NewConsole cria um novo Console.
func NewConsole(opts Options) *Console {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	rank, ok := levelRank[strings.ToLower(opts.LogLevel)]
	if !ok {
		rank = levelRank[types.DefaultLogLevel]
	}

	return &Console{
		out:         opts.Out,
		errOut:      opts.ErrOut,
		minLevel:    rank,
		interactive: opts.Interactive,
		info:        pterm.Info.WithWriter(opts.ErrOut),
		warning:     pterm.Warning.WithWriter(opts.ErrOut),
		failure:     pterm.Error.WithWriter(opts.ErrOut),
		success:     pterm.Success.WithWriter(opts.ErrOut),
	}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	if c.minLevel <= levelRank["info"] {
		c.info.Printfln(format, a...)
	}
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	if c.minLevel <= levelRank["warn"] {
		c.warning.Printfln(format, a...)
	}
}

// LogError registra uma mensagem de erro. Erros nunca são filtrados.
func (c *Console) LogError(format string, a ...interface{}) {
	c.failure.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	if c.minLevel <= levelRank["info"] {
		c.success.Printfln(format, a...)
	}
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
// Fora de um TTY o handle retornado não faz nada.
func (c *Console) Status(message string) types.StatusHandle {
	if !c.interactive {
		return &statusHandle{}
	}
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.errOut).WithRemoveWhenDone(true).Start(message)
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
