package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/selim/opphub/internal/catalog"
	"github.com/selim/opphub/internal/config"
	"github.com/selim/opphub/internal/models"
	"github.com/selim/opphub/internal/upstream"
)

// browse fetches one catalog family through the full pipeline and prints
// the requested page as a table. Handy for eyeballing what a given filter
// combination actually returns.
func main() {
	kindFlag := flag.String("kind", "scholarships", "catalog family: scholarships, trainings, events")
	search := flag.String("search", "", "free-text search")
	country := flag.String("country", "", "location/country filter")
	level := flag.String("level", "", "academic level: Licence, Master, Doctorat")
	categories := flag.String("categories", "", "comma-separated category tags")
	price := flag.String("price", "", "free or paid")
	window := flag.String("date", "", "event window: thisWeek or nextMonth")
	sortFlag := flag.String("sort", "newest", "sort key: newest, oldest, priceAsc")
	page := flag.Int("page", 1, "page number")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}

	var kind models.Kind
	switch strings.ToLower(*kindFlag) {
	case "trainings", "training":
		kind = models.KindTraining
	case "events", "event":
		kind = models.KindEvent
	default:
		kind = models.KindScholarship
	}

	filters := catalog.Filters{
		Search:     *search,
		Location:   *country,
		Level:      *level,
		Price:      *price,
		DateWindow: *window,
	}
	for _, part := range strings.Split(*categories, ",") {
		for _, tag := range models.AllTags() {
			if strings.EqualFold(strings.TrimSpace(part), string(tag)) {
				filters.Categories = append(filters.Categories, tag)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()

	client := upstream.NewClient(cfg.CatalogBaseURL, cfg.RequestTimeout())
	pipeline := catalog.NewPipeline(kind, client, cfg.PageSize)

	items, err := pipeline.Refresh(ctx, filters)
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}

	now := time.Now()
	refined := filters.Apply(items, now)
	catalog.Sort(refined, catalog.ParseSortKey(*sortFlag))

	paginator := catalog.NewPaginator(cfg.PageSize)
	paginator.SetInput(refined)
	if !paginator.GoTo(*page) {
		log.Printf("Page %d out of range, showing page %d", *page, paginator.CurrentPage())
	}
	view := paginator.Page()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Title", "Organization", "Location", "Deadline", "Value", "Tags"})

	for _, item := range view.Items {
		tags := make([]string, 0, len(item.Tags))
		for _, tag := range item.Tags {
			tags = append(tags, string(tag))
		}
		soon := ""
		if catalog.ClosingSoon(item, now) {
			soon = " !"
		}
		t.AppendRow(table.Row{
			item.ID, truncate(item.Title, 40), truncate(item.Organization, 24),
			item.Location, item.Deadline + soon, item.Value, strings.Join(tags, ", "),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Page", fmt.Sprintf("%d/%d", view.Number, view.TotalPages)})
	t.Render()
}

// truncate counts runes, not bytes; accented titles must never be cut
// mid-character.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen > 3 {
		return string(runes[:maxLen-3]) + "..."
	}
	return string(runes[:maxLen])
}
