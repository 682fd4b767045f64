package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/validation"
)

// headerNamePattern matches an RFC 9110 field-name token.
const headerNamePattern = "^[!#$%&'*+.^_`|~0-9A-Za-z-]+$"

type sendOptions struct {
	headers   []string
	data      []string
	json      bool
	accept    string
	user      string
	insecure  bool
	cacert    string
	cert      string
	certType  string
	key       string
	transport string
	path      string
	timeout   time.Duration
	include   bool
	fail      bool
}

func newSendCommand(a *app) *cobra.Command {
	o := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send METHOD URL",
		Short: "Send one HTTP request",
		Example: `  reqkit send GET https://api.example.com/items --accept json --path items.0.id
  reqkit send POST https://api.example.com/items -d name=widget -d count=3 --json
  reqkit send PUT https://secure.example.com/x --cert client.p12:secret --cacert ca.pem`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := o.build(a, args[0], args[1])
			if err != nil {
				return err
			}
			client, err := a.newClient(o.transport)
			if err != nil {
				return err
			}

			resp, err := client.Send(cmd.Context(), req)
			if err != nil {
				return err
			}

			p := &printer{out: cmd.OutOrStdout(), meta: cmd.ErrOrStderr()}
			p.status(resp)
			if o.include {
				p.headers(resp)
			}

			if o.path != "" {
				result := resp.Get(o.path)
				if !result.Exists() {
					return fmt.Errorf("path %q not found in response", o.path)
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.String())
			} else {
				p.body(resp.Body())
			}

			if o.fail && resp.StatusCode() >= 400 {
				return &exitError{code: ExitHTTPError, err: fmt.Errorf("server returned %s", resp.StatusLine())}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&o.headers, "header", "H", nil, "request header as 'Name: value' (repeatable)")
	f.StringArrayVarP(&o.data, "data", "d", nil, "payload field as key=value (repeatable)")
	f.BoolVar(&o.json, "json", false, "send the payload as JSON; values that parse as JSON keep their type")
	f.StringVar(&o.accept, "accept", "", "required response content type (json)")
	f.StringVarP(&o.user, "user", "u", "", "basic auth credentials as user:password")
	f.BoolVarP(&o.insecure, "insecure", "k", false, "skip peer and host verification")
	f.StringVar(&o.cacert, "cacert", "", "CA bundle file or directory")
	f.StringVar(&o.cert, "cert", "", "client certificate as path[:password]")
	f.StringVar(&o.certType, "cert-type", "", "client certificate type: PEM or P12 (default from extension)")
	f.StringVar(&o.key, "key", "", "client private key as path[:password]")
	f.StringVar(&o.transport, "transport", "", "transport engine: nethttp or resty")
	f.StringVar(&o.path, "path", "", "print only this gjson path of the body")
	f.DurationVar(&o.timeout, "timeout", 0, "request timeout, e.g. 10s")
	f.BoolVarP(&o.include, "include", "i", false, "print response headers")
	f.BoolVarP(&o.fail, "fail", "f", false, "exit 22 on HTTP status 400 and above")
	return cmd
}

// build turns the flags into a request.
func (o *sendOptions) build(a *app, method, url string) (*httpclient.Request, error) {
	req, err := httpclient.NewRequest(url, strings.ToUpper(method))
	if err != nil {
		return nil, err
	}

	for _, h := range o.headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		err := validation.New().
			Custom(ok, "header", fmt.Sprintf("%q is not 'Name: value'", h)).
			Pattern("header", name, headerNamePattern).
			Validate()
		if err != nil {
			return nil, err
		}
		req.SetHeader(name, strings.TrimSpace(value))
	}

	if len(o.data) > 0 || o.json {
		payload, err := parseData(o.data, o.json)
		if err != nil {
			return nil, err
		}
		encoding := httpclient.EncodingForm
		if o.json {
			encoding = httpclient.EncodingJSON
		}
		if err := req.SetPayload(payload, encoding); err != nil {
			return nil, err
		}
	}

	if o.accept != "" {
		if err := req.SetAccept(o.accept); err != nil {
			return nil, err
		}
	}

	if o.user != "" {
		user, pass, _ := strings.Cut(o.user, ":")
		req.UseAuth(httpclient.NewAuthConfig().Basic(user, pass))
	}

	if o.timeout > 0 {
		req.SetTimeout(o.timeout)
	}

	if req.IsHTTPS() {
		tlsCfg, err := o.tlsConfig(a.cfg.TLS)
		if err != nil {
			return nil, err
		}
		req.UseTLS(tlsCfg)
	}
	return req, nil
}

func (o *sendOptions) tlsConfig(defaults TLSDefaults) (*httpclient.TLSConfig, error) {
	t := httpclient.NewTLSConfig()
	t.SetVerification(!(o.insecure || defaults.Insecure))

	ca := o.cacert
	if ca == "" {
		ca = defaults.CAFile
	}
	if ca != "" {
		if err := t.SetCA(ca); err != nil {
			return nil, err
		}
	}

	if o.cert != "" {
		path, pass, _ := strings.Cut(o.cert, ":")
		certType := o.certType
		if certType == "" {
			certType = certTypeFor(path)
		}
		if err := t.SetCertificateType(certType); err != nil {
			return nil, err
		}
		if err := t.SetCertificate(path, pass); err != nil {
			return nil, err
		}
	}

	if o.key != "" {
		path, pass, _ := strings.Cut(o.key, ":")
		if err := t.SetPrivateKey(path, pass); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func certTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".p12", ".pfx":
		return "P12"
	default:
		return "PEM"
	}
}

// parseData builds a payload from key=value pairs in flag order. With
// asJSON, values that are valid JSON keep their decoded type.
func parseData(pairs []string, asJSON bool) (*httpclient.Payload, error) {
	payload := httpclient.NewPayload()
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		err := validation.New().
			Custom(ok, "data", fmt.Sprintf("%q is not key=value", pair)).
			Required("data", key).
			Validate()
		if err != nil {
			return nil, err
		}
		if asJSON {
			var decoded any
			if err := json.Unmarshal([]byte(value), &decoded); err == nil {
				payload.Set(key, decoded)
				continue
			}
		}
		payload.Set(key, value)
	}
	return payload, nil
}
