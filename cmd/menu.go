package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crystaldolphin/shellchat/internal/dependency"
	"github.com/crystaldolphin/shellchat/internal/providers"
	"github.com/crystaldolphin/shellchat/internal/store"
	"github.com/crystaldolphin/shellchat/internal/ui"
)

func runMenu(cmd *cobra.Command, _ []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())

	provider := cfg.Provider
	if provider == "" {
		spec, ok := selectProvider(p)
		if !ok {
			p.Error("Invalid choice. Exiting.")
			return nil
		}
		provider = string(spec.Kind)
	}

	c, err := dependency.New(cfg, dependency.Options{Provider: provider, Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, stop := interactiveContext()
	defer stop()

	for {
		p.Line("")
		p.Title("Main Menu")
		p.Line("1. Start new chat session")
		p.Line("2. List previous sessions")
		p.Line("3. View a session's history")
		p.Line("4. Export a session's history")
		p.Line("5. Quit")
		p.Ask("Enter your choice: ")

		choice, ok := readLine()
		if !ok {
			p.Title("Goodbye!")
			return nil
		}

		switch choice {
		case "1":
			err = startChat(ctx, c, p, chatOptions{})
		case "2":
			err = withStore(c, func(s store.Store) error { return listSessions(ctx, s, p) })
		case "3":
			p.Ask("Enter session ID to view: ")
			id, _ := readLine()
			err = withStore(c, func(s store.Store) error { return viewSession(ctx, s, p, id) })
		case "4":
			p.Ask("Enter session ID to export: ")
			id, _ := readLine()
			err = withStore(c, func(s store.Store) error {
				return exportSession(ctx, s, p, id, exportOptions{format: "txt", dir: "."})
			})
		case "5":
			p.Title("Goodbye!")
			return nil
		default:
			p.Error("Invalid choice. Please try again.")
			continue
		}

		if err != nil {
			p.Error(err.Error())
		}
	}
}

// selectProvider shows the provider menu and reads one choice.
func selectProvider(p *ui.Printer) (*providers.ProviderSpec, bool) {
	p.Title("Select an API Provider:")
	for _, spec := range providers.PROVIDERS {
		p.Line("%s. %s", spec.MenuKey, spec.Label())
	}
	p.Ask("Enter your choice: ")

	choice, ok := readLine()
	if !ok {
		return nil, false
	}
	spec := providers.FindByMenuChoice(choice)
	return spec, spec != nil
}
