package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/ui"
)

// doList prints the todos of a running web server as a panel.
func doList(ctx context.Context, args []string, opt Options) int {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(opt.Stderr)
	group := fs.Bool("group", false, "group output by active/completed")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		ui.Fail(opt.Stderr, "usage: todo [flags] ls [-group]")
		return 2
	}

	url := "http://" + dialAddr(opt.Config.Addr) + "/api/todos"
	items, err := fetchTodos(ctx, url)
	if err != nil {
		ui.Fail(opt.Stderr, "ls: "+err.Error())
		return 1
	}

	p := ui.NewPalette(ui.LookupTheme(opt.Config.Theme), opt.Stdout, opt.Config.Color)
	fmt.Fprintln(opt.Stdout, p.Panel(listLines(p, items, *group)))
	return 0
}

// dialAddr turns a listen address into one a client can dial.
func dialAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return strings.Replace(addr, "0.0.0.0:", "localhost:", 1)
}

func fetchTodos(ctx context.Context, url string) ([]model.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("get %s: %s: %s", url, resp.Status, strings.TrimSpace(string(body)))
	}
	var items []model.Todo
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	return items, nil
}

// -------------- rendering helpers --------------

func listLines(p *ui.Palette, items []model.Todo, group bool) []string {
	done, active := stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		p.Colorize("Todos", ui.RoleTitle),
		p.Colorize(p.Theme().SymDone, ui.RoleSuccess), done,
		p.Colorize("•", ui.RoleWarning), active,
		p.Colorize("Total", ui.RoleAccent), len(items),
	)

	lines := []string{header, p.ProgressBar(done, done+active, 28), ""}
	if group {
		lines = append(lines, groupLines(p, items)...)
	} else {
		lines = append(lines, flatLines(p, items)...)
	}
	return lines
}

func stats(items []model.Todo) (done, active int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			active++
		}
	}
	return
}

func flatLines(p *ui.Palette, items []model.Todo) []string {
	if len(items) == 0 {
		return []string{p.Colorize("no todos", ui.RoleMuted)}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		box, role := p.Theme().BoxUnchecked, ui.RoleMuted
		if it.Completed {
			box, role = p.Theme().BoxChecked, ui.RoleSuccess
		}
		desc := it.Description
		if len(desc) > 80 {
			desc = desc[:77] + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			p.Colorize(fmt.Sprintf("%2d.", i+1), ui.RoleMuted), p.Colorize(box, role), desc))
	}
	return out
}

func groupLines(p *ui.Palette, items []model.Todo) []string {
	var active, done []model.Todo
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			active = append(active, it)
		}
	}
	section := func(title string, items []model.Todo) []string {
		lines := []string{p.Colorize(title, ui.RoleAccent)}
		if len(items) == 0 {
			return append(lines, p.Colorize("(none)", ui.RoleMuted))
		}
		return append(lines, flatLines(p, items)...)
	}
	lines := section("Active", active)
	lines = append(lines, "")
	return append(lines, section("Completed", done)...)
}
