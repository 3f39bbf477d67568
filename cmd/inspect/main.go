package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"live-hub/internal"

	"github.com/olekukonko/tablewriter"
)

// inspect renders the hub's /stats snapshot as a table.
func main() {
	statsURL := flag.String("url", "http://localhost:8080/stats", "stats endpoint of the hub")
	flag.Parse()

	resp, err := http.Get(*statsURL)
	if err != nil {
		log.Fatalf("Failed to reach %s: %v", *statsURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Unexpected status from %s: %d", *statsURL, resp.StatusCode)
	}

	var stats internal.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		log.Fatalf("Failed to decode stats: %v", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Room", "Kind", "Members"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, room := range stats.Rooms {
		table.Append([]string{string(room.ID), string(room.Kind), strconv.Itoa(room.Members)})
	}
	table.Render()

	fmt.Printf("Connections: %d\n", stats.Connections)
}
