package ui

import "strings"

func Title(text string) Node    { return Node{Kind: KindTitle, Text: text} }
func Markdown(text string) Node { return Node{Kind: KindMarkdown, Text: text} }
func Caption(text string) Node  { return Node{Kind: KindCaption, Text: text} }
func Divider() Node             { return Node{Kind: KindDivider} }
func Info(text string) Node     { return Node{Kind: KindInfo, Text: text} }
func Success(text string) Node  { return Node{Kind: KindSuccess, Text: text} }
func Error(text string) Node    { return Node{Kind: KindError, Text: text} }

// Columns lays children out side by side.
func Columns(children ...Node) Node {
	return Node{Kind: KindColumns, Children: children}
}

// MetricCard builds a metric node. The delta direction follows its sign.
func MetricCard(label, value, delta string) Node {
	return Node{Kind: KindMetric, Metric: &Metric{
		Label:     label,
		Value:     value,
		Delta:     delta,
		Direction: DeltaDirection(delta),
	}}
}

// DeltaDirection reads the trend from a delta string such as "-8%" or "2 °C".
func DeltaDirection(delta string) Direction {
	d := strings.TrimSpace(delta)
	switch {
	case d == "":
		return DirectionFlat
	case strings.HasPrefix(d, "-"), strings.HasPrefix(d, "−"):
		return DirectionDown
	case strings.Trim(d, "0.+%") == "":
		return DirectionFlat
	default:
		return DirectionUp
	}
}

// Tabs builds a tab set.
func Tabs(tabs ...Tab) Node {
	return Node{Kind: KindTabs, Tabs: tabs}
}

// ChartNode wraps a chart.
func ChartNode(c *Chart) Node {
	return Node{Kind: KindChart, Chart: c}
}

// TableNode wraps a table.
func TableNode(t *Table) Node {
	return Node{Kind: KindTable, Table: t}
}

// Progress builds a progress bar clamped to 0..100.
func Progress(percent int) Node {
	p := min(max(percent, 0), 100)
	return Node{Kind: KindProgress, Percent: &p}
}

// ChatMessage builds a chat log entry.
func ChatMessage(id, role, content string) Node {
	return Node{Kind: KindChatMessage, Message: &Message{ID: id, Role: role, Content: content}}
}

// ChatInput builds the chat prompt box.
func ChatInput(action, placeholder string) Node {
	return Node{Kind: KindChatInput, Input: &Input{Action: action, Name: "prompt", Placeholder: placeholder}}
}

// FileInput builds an upload control. accept is an HTML accept list; empty accepts anything.
func FileInput(action, label, accept string) Node {
	return Node{Kind: KindFileInput, Input: &Input{Action: action, Name: "file", Label: label, Accept: accept}}
}

// InlineImage builds an image node from a data URI.
func InlineImage(alt, dataURI string, width int) Node {
	return Node{Kind: KindImage, Image: &Image{Alt: alt, DataURI: dataURI, Width: width}}
}

// ImageURL builds an image node for a served asset.
func ImageURL(alt, url string, width int) Node {
	return Node{Kind: KindImage, Image: &Image{Alt: alt, URL: url, Width: width}}
}

// SelectBox builds a single-choice selector.
func SelectBox(label string, options ...Option) Node {
	return Node{Kind: KindSelect, Select: &Select{Label: label, Options: options}}
}

// LiveStream builds a node the client connects to a server-sent event source.
func LiveStream(id, url string, events ...string) Node {
	return Node{Kind: KindStream, ID: id, Stream: &Stream{URL: url, Events: events}}
}

// WithID sets the node ID used by clients to patch it in place.
func (n Node) WithID(id string) Node {
	n.ID = id
	return n
}
