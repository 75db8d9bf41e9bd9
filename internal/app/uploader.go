package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/explorer"
	"github.com/ashureev/panelboard/internal/ui"
	"github.com/dustin/go-humanize"
)

const uploaderPrompt = "Drop any file to preview it"

func (a *App) fileUploader(ctx context.Context, art *domain.Artifact) []ui.Node {
	nodes := []ui.Node{
		ui.Title("File Uploader & Preview"),
		ui.FileInput(UploaderAction, "Drop any file", ""),
	}
	if art == nil {
		return append(nodes, ui.Info(uploaderPrompt))
	}

	nodes = append(nodes, ui.Success(Receipt(art)))

	switch {
	case art.IsImage():
		nodes = append(nodes, ui.InlineImage(art.Name, dataURI(art), 0))
	case art.IsCSV():
		f, err := explorer.Parse(bytes.NewReader(art.Data))
		if err != nil {
			slog.InfoContext(ctx, "Could not parse upload", "name", art.Name, "error", err)
			return append(nodes, parseError(art.Name, err))
		}
		nodes = append(nodes, ui.TableNode(frameTable(f)))
	}
	return nodes
}

// Receipt is the confirmation line for an upload.
func Receipt(art *domain.Artifact) string {
	return fmt.Sprintf("Received: %s (%s bytes)", art.Name, humanize.Comma(art.Size))
}

func dataURI(art *domain.Artifact) string {
	return "data:" + art.MediaType() + ";base64," + base64.StdEncoding.EncodeToString(art.Data)
}
