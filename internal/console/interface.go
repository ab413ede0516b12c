package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"omnifetch/internal/entity"
	"omnifetch/internal/usecase"
	"omnifetch/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const divider = "──────────────────────────────────────────────"

var errExit = errors.New("exit")

type Interface struct {
	logger     *zap.Logger
	usecase    *usecase.Service
	shutdowner fx.Shutdowner
	scanner    *bufio.Scanner
	out        io.Writer
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	stopping   bool
}

type Params struct {
	fx.In

	Logger     *zap.Logger
	Usecase    *usecase.Service
	Shutdowner fx.Shutdowner
}

func NewInterface(params Params) *Interface {
	return newInterface(params, os.Stdin, os.Stdout)
}

func newInterface(params Params, in io.Reader, out io.Writer) *Interface {
	ctx, cancel := context.WithCancel(context.Background())

	return &Interface{
		logger:     params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase:    params.Usecase,
		shutdowner: params.Shutdowner,
		scanner:    bufio.NewScanner(in),
		out:        out,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start runs the menu loop until exit or end of input, then asks the app to
// shut down.
func (i *Interface) Start() error {
	i.printBanner()
	i.printHelp()

	for !i.isStopping() {
		input, ok := i.prompt("\n> ")
		if !ok {
			break
		}

		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if errors.Is(err, errExit) {
				break
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Fprintf(i.out, "Error: %v\n", err)
		}
	}

	if i.isStopping() {
		return nil
	}

	fmt.Fprintln(i.out, "Goodbye!")

	return i.shutdowner.Shutdown()
}

func (i *Interface) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.stopping {
		return nil
	}

	i.stopping = true
	i.logger.Info("Stopping console interface...")
	i.cancel()

	return nil
}

func (i *Interface) isStopping() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.stopping
}

func (i *Interface) prompt(label string) (string, bool) {
	fmt.Fprint(i.out, label)

	if !i.scanner.Scan() {
		return "", false
	}

	return strings.TrimSpace(i.scanner.Text()), true
}

// argOrPrompt returns arg, or asks for it when the command came without one.
func (i *Interface) argOrPrompt(arg, label string) string {
	if arg != "" {
		return arg
	}

	value, _ := i.prompt(label)

	return value
}

func (i *Interface) handleCommand(input string) error {
	command, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Fprintln(i.out, "Shutting down...")

		return errExit
	case "check", "c":
		return i.check(i.argOrPrompt(arg, "Selector: "))
	case "scrape", "s":
		return i.scrape(i.argOrPrompt(arg, "Selector: "))
	case "inspect", "i":
		return i.inspect(i.argOrPrompt(arg, "Selector: "))
	case "goto", "g":
		return i.navigate(i.argOrPrompt(arg, "URL: "))
	case "extension", "datasets", "e":
		i.listDatasets()

		return nil
	case "export", "x":
		return i.export(arg)
	default:
		fmt.Fprintf(i.out, "Unknown command %q, type help for the list\n", command)

		return nil
	}
}

func (i *Interface) check(sel string) error {
	res, err := i.usecase.Selector.Check(i.ctx, sel)
	if err != nil {
		return err
	}

	i.printCheck(res)

	return nil
}

func (i *Interface) scrape(sel string) error {
	check, err := i.usecase.Selector.Check(i.ctx, sel)
	if err != nil {
		return err
	}

	if !check.Found {
		fmt.Fprintln(i.out, check.Message)

		return nil
	}

	res, err := i.usecase.Selector.Scrape(i.ctx, sel)
	if err != nil {
		return err
	}

	fmt.Fprintln(i.out, res.Message)

	if !res.Success {
		return nil
	}

	fmt.Fprintln(i.out, divider)

	for n, item := range res.Preview {
		fmt.Fprintf(i.out, "%2d. %s\n", n+1, item)
	}

	if res.Count > len(res.Preview) {
		fmt.Fprintf(i.out, "... and %d more\n", res.Count-len(res.Preview))
	}

	fmt.Fprintln(i.out, divider)

	format, _ := i.prompt("Save to file? (csv/excel/json, empty to skip): ")
	if format == "" || strings.EqualFold(format, "n") {
		return nil
	}

	return i.exportDataset(res.Key, format)
}

func (i *Interface) inspect(sel string) error {
	res, err := i.usecase.Selector.Inspect(i.ctx, sel)
	if err != nil {
		return err
	}

	css := res.Bundle.CSS
	xpath := res.Bundle.XPath

	fmt.Fprintf(i.out, "Matched %d, inspecting the first\n", res.Count)
	fmt.Fprintln(i.out, divider)
	fmt.Fprintf(i.out, "preferred      %s\n", res.Preferred)
	fmt.Fprintf(i.out, "css id         %s\n", orDash(css.ID))
	fmt.Fprintf(i.out, "css class      %s\n", orDash(css.Class))
	fmt.Fprintf(i.out, "css tag        %s\n", css.Tag)
	fmt.Fprintf(i.out, "css nth-child  %s\n", css.NthChild)
	fmt.Fprintf(i.out, "css path       %s\n", css.FullPath)
	fmt.Fprintf(i.out, "xpath          %s\n", xpath.Full)
	fmt.Fprintf(i.out, "xpath text     %s\n", orDash(xpath.ByText))
	fmt.Fprintf(i.out, "xpath attr     %s\n", orDash(xpath.ByAttribute))
	fmt.Fprintln(i.out, divider)
	fmt.Fprintf(i.out, "text           %s\n", res.Summary.TruncatedText)

	for _, attr := range res.Summary.Attributes {
		fmt.Fprintf(i.out, "@%s=%q\n", attr.Name, attr.Value)
	}

	return nil
}

func (i *Interface) navigate(url string) error {
	if url == "" {
		fmt.Fprintln(i.out, "URL is required")

		return nil
	}

	if err := i.usecase.Browser.Navigate(i.ctx, url); err != nil {
		return err
	}

	fmt.Fprintf(i.out, "Opened %s\n", url)

	return nil
}

func (i *Interface) listDatasets() []entity.DatasetInfo {
	infos := i.usecase.Dataset.List()
	if len(infos) == 0 {
		fmt.Fprintln(i.out, "No datasets yet, scrape something first")

		return nil
	}

	for n, info := range infos {
		fmt.Fprintf(i.out, "%2d. %s  %d items  %s\n", n+1, info.Key, info.Count, info.Selector)
	}

	return infos
}

// export accepts "export", "export <n|key|all>" or "export <n|key|all> <format>".
func (i *Interface) export(arg string) error {
	target, format, _ := strings.Cut(arg, " ")
	format = strings.TrimSpace(format)

	if target == "" {
		infos := i.listDatasets()
		if len(infos) == 0 {
			return nil
		}

		target, _ = i.prompt("Dataset number or 'all': ")
	}

	key, err := i.resolveTarget(target)
	if err != nil {
		return err
	}

	format = i.argOrPrompt(format, "Format (csv/excel/json): ")

	return i.exportDataset(key, format)
}

func (i *Interface) resolveTarget(target string) (string, error) {
	if strings.EqualFold(target, usecase.ExportAll) {
		return usecase.ExportAll, nil
	}

	n, err := strconv.Atoi(target)
	if err != nil {
		return target, nil
	}

	infos := i.usecase.Dataset.List()
	if n < 1 || n > len(infos) {
		return "", fmt.Errorf("no dataset number %d", n)
	}

	return infos[n-1].Key, nil
}

func (i *Interface) exportDataset(key, format string) error {
	res, err := i.usecase.Dataset.Export(i.ctx, key, entity.ExportFormat(strings.ToLower(format)))
	if err != nil {
		return err
	}

	fmt.Fprintf(i.out, "Saved %d rows to %s\n", res.Rows, res.Path)

	return nil
}

func (i *Interface) printCheck(res *entity.CheckResult) {
	fmt.Fprintf(i.out, "%s (%s)\n", res.Message, res.Kind)

	for _, el := range res.Elements {
		fmt.Fprintf(i.out, "  [%d] <%s> %s", el.Index, el.Tag, el.Text)

		for _, name := range []string{"id", "class", "href"} {
			if value, ok := el.Attributes[name]; ok {
				fmt.Fprintf(i.out, " %s=%q", name, value)
			}
		}

		fmt.Fprintln(i.out)
	}

	if res.Count > len(res.Elements) {
		fmt.Fprintf(i.out, "  ... %d more\n", res.Count-len(res.Elements))
	}
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}

	return *s
}

func (i *Interface) printBanner() {
	banner := `
╔══════════════════════════════════════════════╗
║        OmniFetch selector workbench          ║
║  check, scrape and inspect the open page     ║
╚══════════════════════════════════════════════╝`
	fmt.Fprintln(i.out, banner)
}

func (i *Interface) printHelp() {
	help := `
Available commands:
  check, c <selector>     - Count matches and highlight them
  scrape, s <selector>    - Collect match texts into a dataset
  inspect, i <selector>   - Generate selectors for the first match
  goto, g <url>           - Open a URL in the browser
  extension, e            - List stored datasets
  export, x [n|all] [fmt] - Save a dataset as csv, excel or json
  help, h                 - Show this help message
  exit, quit, q           - Exit the application

Selectors are CSS unless they start with "/", "./", "(" or "xpath:".`
	fmt.Fprintln(i.out, help)
}
