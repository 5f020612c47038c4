package render

import (
	"regexp"
	"strings"
	"time"

	"github.com/jwalitptl/studio-automations/internal/model"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Context carries everything a template may reference. Client and Project
// may be nil; their placeholders then resolve to empty strings.
type Context struct {
	Settings model.BusinessSettings
	Client   *model.Client
	Project  *model.Project
	Now      time.Time
}

type resolver func(r *Renderer, c *Context) string

var placeholders = map[string]resolver{
	"business_name":    func(_ *Renderer, c *Context) string { return c.Settings.BusinessName },
	"business_owner":   func(_ *Renderer, c *Context) string { return c.Settings.OwnerName },
	"business_email":   func(_ *Renderer, c *Context) string { return c.Settings.Email },
	"business_address": func(_ *Renderer, c *Context) string { return c.Settings.Address },
	"business_logo":    func(_ *Renderer, c *Context) string { return c.Settings.LogoURL },

	"client_name":  clientName,
	"client_email": func(_ *Renderer, c *Context) string { return clientField(c, func(cl *model.Client) string { return cl.Email }) },
	"client_phone": func(_ *Renderer, c *Context) string { return clientField(c, func(cl *model.Client) string { return cl.Phone }) },

	"project_title": func(_ *Renderer, c *Context) string {
		return projectField(c, func(p *model.Project) string { return p.Title })
	},
	"project_notes": func(_ *Renderer, c *Context) string {
		return projectField(c, func(p *model.Project) string { return p.Notes })
	},
	"project_location": func(_ *Renderer, c *Context) string {
		return projectField(c, func(p *model.Project) string { return p.Location() })
	},
	"project_type": func(_ *Renderer, c *Context) string {
		return projectField(c, func(p *model.Project) string { return p.ProjectTypeName })
	},
	"project_start_date": func(r *Renderer, c *Context) string {
		return projectField(c, func(p *model.Project) string {
			if p.StartDate == nil {
				return ""
			}
			return r.format.Date(*p.StartDate)
		})
	},
	"project_start_time": func(r *Renderer, c *Context) string {
		return projectField(c, func(p *model.Project) string {
			if p.StartDate == nil {
				return ""
			}
			return r.format.Time(*p.StartDate)
		})
	},
	"project_price": func(r *Renderer, c *Context) string {
		return projectField(c, func(p *model.Project) string {
			if p.Price == nil {
				return ""
			}
			return r.format.Money(*p.Price)
		})
	},

	"current_date": func(r *Renderer, c *Context) string {
		if c.Now.IsZero() {
			return ""
		}
		return r.format.Date(c.Now)
	},
}

func init() {
	// Portuguese aliases used by templates authored in the studio UI.
	aliases := map[string]string{
		"cliente_nome":     "client_name",
		"nome_cliente":     "client_name",
		"cliente_email":    "client_email",
		"cliente_telefone": "client_phone",
		"projeto_titulo":   "project_title",
		"data_sessao":      "project_start_date",
	}
	for alias, target := range aliases {
		placeholders[alias] = placeholders[target]
	}
}

func clientName(_ *Renderer, c *Context) string {
	return clientField(c, func(cl *model.Client) string { return cl.Name })
}

func clientField(c *Context, get func(*model.Client) string) string {
	if c == nil || c.Client == nil {
		return ""
	}
	return get(c.Client)
}

func projectField(c *Context, get func(*model.Project) string) string {
	if c == nil || c.Project == nil {
		return ""
	}
	return get(c.Project)
}

// Substitute replaces every known {{placeholder}} in text. Names match
// case-insensitively; unknown placeholders are kept as written.
func (r *Renderer) Substitute(text string, c *Context) string {
	if text == "" || !strings.Contains(text, "{{") {
		return text
	}
	if c == nil {
		c = &Context{}
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		resolve, ok := placeholders[strings.ToLower(sub[1])]
		if !ok {
			return match
		}
		return resolve(r, c)
	})
}
