package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/alfredjeanlab/loom/internal/ui"
)

const timeFormat = "2006-01-02 15:04:05"

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printTask(t *model.Task) {
	fmt.Printf("ID:          %s\n", ui.RenderAccent(t.ID))
	fmt.Printf("Title:       %s\n", t.Title)
	fmt.Printf("Status:      %s\n", ui.RenderStatus(t.Status))
	if t.CancelReason != "" {
		fmt.Printf("Reason:      %s\n", t.CancelReason)
	}
	fmt.Printf("Difficulty:  %d\n", t.Difficulty)
	if t.Assignee != "" {
		fmt.Printf("Assignee:    %s\n", t.Assignee)
	}
	if t.SessionID != "" {
		fmt.Printf("Session:     %s\n", t.SessionID)
	}
	if t.Order > 0 {
		fmt.Printf("Order:       %d\n", t.Order)
	}
	if t.ParentID != "" {
		fmt.Printf("Parent:      %s\n", t.ParentID)
	}
	if t.Description != "" {
		fmt.Printf("Description: %s\n", t.Description)
	}
	fmt.Printf("Created At:  %s\n", ui.RenderMuted(t.CreatedAt.Format(timeFormat)))
	fmt.Printf("Updated At:  %s\n", ui.RenderMuted(t.UpdatedAt.Format(timeFormat)))
}

func printTaskTable(tasks []*model.Task, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tORD\tSTATUS\tDIFF\tTITLE\tASSIGNEE")
	for _, t := range tasks {
		title := t.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		ord := ""
		if t.Order > 0 {
			ord = fmt.Sprintf("%d", t.Order)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			t.ID,
			ord,
			ui.RenderStatus(t.Status),
			t.Difficulty,
			title,
			t.Assignee,
		)
	}
	w.Flush()
	fmt.Printf("\n%d tasks (%d total)\n", len(tasks), total)
}

func printSession(s *model.Session) {
	fmt.Printf("ID:          %s\n", ui.RenderAccent(s.ID))
	fmt.Printf("Title:       %s\n", s.Title)
	fmt.Printf("Started At:  %s\n", ui.RenderMuted(s.StartedAt.Format(timeFormat)))
	if len(s.Tasks) > 0 {
		fmt.Println()
		printTaskTable(s.Tasks, len(s.Tasks))
	}
}

func printSessionTable(sessions []*model.Session, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tTITLE")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.StartedAt.Format(timeFormat), s.Title)
	}
	w.Flush()
	fmt.Printf("\n%d sessions (%d total)\n", len(sessions), total)
}

func printChainNodes(label string, nodes []*model.ChainNode) {
	fmt.Println(label)
	if len(nodes) == 0 {
		fmt.Printf("  %s\n", ui.RenderMuted("(none)"))
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, n := range nodes {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n",
			n.Depth, n.Task.ID, ui.RenderStatus(n.Task.Status), n.Task.Title)
	}
	w.Flush()
}

func printEvents(events []*model.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTOPIC\tACTOR")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.CreatedAt.Format(timeFormat), e.Topic, e.Actor)
	}
	w.Flush()
}

func printStats(stats *model.GraphStats) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Pending:\t%d\n", stats.TotalPending)
	fmt.Fprintf(w, "In Progress:\t%d\n", stats.TotalInProgress)
	fmt.Fprintf(w, "Done:\t%d\n", stats.TotalDone)
	fmt.Fprintf(w, "Cancelled:\t%d\n", stats.TotalCancelled)
	w.Flush()
}
