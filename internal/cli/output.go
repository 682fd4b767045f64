package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/kbukum/reqkit/httpclient"
)

// printer writes responses to the command's streams. The status line and
// headers go to meta so the body can be piped.
type printer struct {
	out  io.Writer
	meta io.Writer
}

func statusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return color.New(color.FgGreen, color.Bold)
	case code >= 300 && code < 400:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func (p *printer) status(resp *httpclient.Response) {
	statusColor(resp.StatusCode()).Fprintln(p.meta, resp.StatusLine())
}

func (p *printer) headers(resp *httpclient.Response) {
	cyan := color.New(color.FgCyan).SprintFunc()
	for _, line := range resp.RawHeaders() {
		if name, value, ok := strings.Cut(line, ":"); ok && !strings.HasPrefix(line, "HTTP/") {
			fmt.Fprintf(p.meta, "%s:%s\n", cyan(name), value)
		}
	}
	fmt.Fprintln(p.meta)
}

func (p *printer) body(body []byte) {
	if len(body) == 0 {
		return
	}
	p.out.Write(body)
	if body[len(body)-1] != '\n' {
		fmt.Fprintln(p.out)
	}
}

// json prints raw JSON indented, or verbatim when it is not valid JSON.
func (p *printer) json(raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		p.body(raw)
		return
	}
	buf.WriteByte('\n')
	p.out.Write(buf.Bytes())
}
