package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fangbw17/sidebar/internal/domain"
	"github.com/fangbw17/sidebar/internal/sidebar"
	"github.com/fangbw17/sidebar/internal/site"
	"github.com/fangbw17/sidebar/internal/sources/navlocale"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	LocaleFile  string   `name:"locale-file" short:"f" required:"" help:"Navigation locale file (.json, .yaml, .yml)" type:"existingfile"`
	Out         string   `short:"o" help:"Write to this file instead of stdout"`
	PrefixLinks bool     `name:"prefix-links" help:"Rewrite links as key + subDir + link"`
	Site        bool     `help:"Print the full site configuration instead of the sidebar alone"`
	Title       string   `help:"Site title (with --site)" default:"Fangbw"`
	Description string   `help:"Site description (with --site)" default:"Fangbw"`
	SrcDir      string   `name:"src-dir" help:"Content directory (with --site)" default:"./src"`
	Social      []string `help:"Social link as icon=url (with --site), repeatable"`

	stdout io.Writer `kong:"-"`
}

func (b *BuildCmd) Run(_ *CLI) error {
	file, err := navlocale.NewLoader(b.LocaleFile).Load()
	if err != nil {
		return err
	}

	var opts []sidebar.Option
	if b.PrefixLinks {
		opts = append(opts, sidebar.WithLinkPrefixing())
	}

	var out any
	if b.Site {
		meta := site.Meta{Title: b.Title, Description: b.Description, SrcDir: b.SrcDir}
		for _, s := range b.Social {
			link, err := parseSocial(s)
			if err != nil {
				return err
			}
			meta.SocialLinks = append(meta.SocialLinks, link)
		}
		out = site.Assemble(meta, file, opts...)
	} else {
		out = sidebar.Build(file.Sidebar, opts...)
	}

	return b.write(out)
}

func (b *BuildCmd) write(v any) error {
	w := b.stdout
	if w == nil {
		w = os.Stdout
	}
	if b.Out != "" {
		f, err := os.Create(b.Out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parseSocial(raw string) (domain.SocialLink, error) {
	icon, link, ok := strings.Cut(raw, "=")
	icon, link = strings.TrimSpace(icon), strings.TrimSpace(link)
	if !ok || icon == "" || link == "" {
		return domain.SocialLink{}, fmt.Errorf("invalid social link %q, want icon=url", raw)
	}
	return domain.SocialLink{Icon: icon, Link: link}, nil
}
