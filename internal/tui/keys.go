package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding the dashboard responds to. It implements
// help.KeyMap so the footer can render it.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Tab1       key.Binding
	Tab2       key.Binding
	Tab3       key.Binding
	NextSect   key.Binding
	PrevSect   key.Binding
	Open       key.Binding
	Back       key.Binding
	Join       key.Binding
	Leave      key.Binding
	PrevSeries key.Binding
	NextSeries key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Tab1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "upcoming"),
		),
		Tab2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "available"),
		),
		Tab3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "standings"),
		),
		NextSect: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next section"),
		),
		PrevSect: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev section"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Join: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "join"),
		),
		Leave: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "leave"),
		),
		PrevSeries: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev series"),
		),
		NextSeries: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next series"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Open, k.Join, k.Leave, k.Help, k.Quit}
}

// FullHelp is shown after pressing "?".
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.NextTab, k.PrevTab, k.Tab1, k.Tab2, k.Tab3},
		{k.NextSect, k.PrevSect, k.PrevSeries, k.NextSeries},
		{k.Join, k.Leave, k.Reload, k.Help, k.Quit},
	}
}
