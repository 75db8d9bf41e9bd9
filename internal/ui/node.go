// Package ui describes rendered pages as a tree of nodes. Panels build trees;
// renderers turn them into HTML or JSON.
package ui

// Kind identifies what a node displays.
type Kind string

const (
	KindTitle       Kind = "title"
	KindMarkdown    Kind = "markdown"
	KindCaption     Kind = "caption"
	KindDivider     Kind = "divider"
	KindColumns     Kind = "columns"
	KindMetric      Kind = "metric"
	KindTabs        Kind = "tabs"
	KindChart       Kind = "chart"
	KindTable       Kind = "table"
	KindInfo        Kind = "info"
	KindSuccess     Kind = "success"
	KindError       Kind = "error"
	KindProgress    Kind = "progress"
	KindChatMessage Kind = "chat_message"
	KindChatInput   Kind = "chat_input"
	KindFileInput   Kind = "file_input"
	KindImage       Kind = "image"
	KindSelect      Kind = "select"
	KindStream      Kind = "stream"
)

// Node is one element of a page. Only the fields relevant to Kind are set.
type Node struct {
	Kind     Kind     `json:"kind"`
	ID       string   `json:"id,omitempty"`
	Text     string   `json:"text,omitempty"`
	Children []Node   `json:"children,omitempty"`
	Metric   *Metric  `json:"metric,omitempty"`
	Tabs     []Tab    `json:"tabs,omitempty"`
	Chart    *Chart   `json:"chart,omitempty"`
	Table    *Table   `json:"table,omitempty"`
	Percent  *int     `json:"percent,omitempty"`
	Message  *Message `json:"message,omitempty"`
	Image    *Image   `json:"image,omitempty"`
	Input    *Input   `json:"input,omitempty"`
	Select   *Select  `json:"select,omitempty"`
	Stream   *Stream  `json:"stream,omitempty"`
}

// Direction is the trend of a metric delta.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Metric is a summary value card.
type Metric struct {
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Delta     string    `json:"delta,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Tab is one labelled tab of a tab set.
type Tab struct {
	Label    string `json:"label"`
	Children []Node `json:"children"`
}

// Series is one plotted series. X holds numeric positions; XLabels, when set,
// holds the display value for each position (dates, for example).
type Series struct {
	Name    string    `json:"name"`
	X       []float64 `json:"x"`
	XLabels []string  `json:"x_labels,omitempty"`
	Y       []float64 `json:"y"`
	Size    []float64 `json:"size,omitempty"`
}

// Chart is a rendered chart plus the data behind it.
type Chart struct {
	Type   string   `json:"type"` // "line" or "scatter"
	Title  string   `json:"title,omitempty"`
	XName  string   `json:"x_name,omitempty"`
	YName  string   `json:"y_name,omitempty"`
	Series []Series `json:"series"`
	SVG    string   `json:"svg,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Column describes a table column.
type Column struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// Table is a grid of cells with a header.
type Table struct {
	Columns  []Column   `json:"columns"`
	Rows     [][]string `json:"rows"`
	RowCount int        `json:"row_count"`
}

// Message is a chat log entry.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Image is an image shown from a static URL or inline from a data URI.
type Image struct {
	Alt     string `json:"alt"`
	URL     string `json:"url,omitempty"`
	DataURI string `json:"data_uri,omitempty"`
	Width   int    `json:"width,omitempty"`
}

// Input is a form control that posts back to Action.
type Input struct {
	Action      string `json:"action"`
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Accept      string `json:"accept,omitempty"`
}

// Option is one choice of a select control.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Href     string `json:"href"`
	Selected bool   `json:"selected,omitempty"`
}

// Select is a single-choice control.
type Select struct {
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

// Stream points the client at a server-sent event source.
type Stream struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

// MenuItem is an entry of the page menu.
type MenuItem struct {
	Label    string `json:"label"`
	Href     string `json:"href,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// Meta is the page-level metadata set once per process.
type Meta struct {
	Title        string     `json:"title"`
	Icon         string     `json:"icon"`
	Layout       string     `json:"layout"`
	SidebarState string     `json:"sidebar_state"`
	Menu         []MenuItem `json:"menu,omitempty"`
}

// Page is a complete render pass result.
type Page struct {
	Meta    Meta   `json:"meta"`
	Panel   string `json:"panel"`
	Sidebar []Node `json:"sidebar"`
	Main    []Node `json:"main"`
	Footer  []Node `json:"footer"`
}
