package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: mushtrack [command] [args]

Run with no arguments to open the interactive view.

commands:
  batches                       list all batches
  show <id>                     show one batch
  create                        create a batch (see create -h)
  move <id> <stage>             move a batch to a stage
  colonised <id> <YYYY-MM-DD>   record colonisation complete
  split <id> <qty> <YYYY-MM-DD> split units off into the grow room
  harvest <id> <kg> [kg...]     log harvest weights
  stats [days|fy|month=...]     show an aggregate summary
  overview                      show the dashboard overview`)
	os.Exit(2)
}

func main() {
	client := NewApiClient()
	if ok, err := client.CheckHealth(); !ok {
		fmt.Fprintf(os.Stderr, "API server at %s is not available: %v\n", client.BaseURL, err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		p := tea.NewProgram(initialModel(client))
		if _, err := p.Run(); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	var err error
	switch os.Args[1] {
	case "batches":
		err = listBatches(client)
	case "show":
		if len(os.Args) != 3 {
			usage()
		}
		err = showBatch(client, os.Args[2])
	case "create":
		err = createBatch(client, os.Args[2:])
	case "move":
		if len(os.Args) != 4 {
			usage()
		}
		err = moveBatch(client, os.Args[2], os.Args[3])
	case "colonised":
		if len(os.Args) != 4 {
			usage()
		}
		_, err = client.SetColonised(os.Args[2], os.Args[3])
	case "split":
		if len(os.Args) != 5 {
			usage()
		}
		err = splitBatch(client, os.Args[2], os.Args[3], os.Args[4])
	case "harvest":
		if len(os.Args) < 4 {
			usage()
		}
		err = logHarvest(client, os.Args[2], os.Args[3:])
	case "stats":
		query := ""
		if len(os.Args) > 2 {
			query = os.Args[2]
		}
		err = showStats(client, query)
	case "overview":
		err = showOverview(client)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func listBatches(client *ApiClient) error {
	batches, err := client.ListBatches()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tSTAGE\tVARIETY\tUNITS\tCONTAM\tHARVEST KG\tID")
	for _, b := range batches {
		var harvest float64
		for _, h := range b.Harvests {
			harvest += h.Weight
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2f\t%s\n",
			b.BatchLabel, b.Stage, b.Variety, b.NumUnits, b.ContaminatedUnits, harvest, b.ID)
	}
	return w.Flush()
}

func showBatch(client *ApiClient, id string) error {
	b, err := client.GetBatch(id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", b.BatchLabel, b.ID)
	fmt.Printf("  stage:        %s\n", b.Stage)
	fmt.Printf("  variety:      %s\n", b.Variety)
	fmt.Printf("  substrate:    %s\n", b.SubstrateRecipe)
	fmt.Printf("  supplier:     %s\n", b.SpawnSupplier)
	fmt.Printf("  units:        %d %s x %.2f kg\n", b.NumUnits, b.UnitType, b.UnitWeight)
	fmt.Printf("  contaminated: %d\n", b.ContaminatedUnits)
	fmt.Printf("  inoculated:   %s\n", b.InoculationDate)
	if b.ColonisationCompleteDate != nil {
		fmt.Printf("  colonised:    %s\n", *b.ColonisationCompleteDate)
	}
	if b.GrowRoomEntryDate != nil {
		fmt.Printf("  grow entry:   %s\n", *b.GrowRoomEntryDate)
	}
	if b.RetirementDate != nil {
		fmt.Printf("  retired:      %s\n", *b.RetirementDate)
	}
	if b.ParentBatchID != nil {
		fmt.Printf("  parent:       %s\n", *b.ParentBatchID)
	}
	for _, h := range b.Harvests {
		fmt.Printf("  harvest:      %s  %.2f kg\n", h.Date, h.Weight)
	}
	if b.Notes != "" {
		fmt.Printf("  notes:        %s\n", b.Notes)
	}
	return nil
}

func createBatch(client *ApiClient, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	variety := fs.String("variety", "", "variety name (required)")
	date := fs.String("date", "", "inoculation date YYYY-MM-DD (default today)")
	units := fs.Int("units", 0, "number of units (required)")
	unitType := fs.String("unit-type", "bags", "unit type")
	unitWeight := fs.Float64("unit-weight", 2.5, "kg of substrate per unit")
	substrate := fs.String("substrate", "", "substrate recipe (required)")
	supplier := fs.String("supplier", "", "spawn supplier (required)")
	notes := fs.String("notes", "", "free-text notes")
	fs.Parse(args)

	batch, err := client.CreateBatch(map[string]interface{}{
		"variety":          *variety,
		"inoculation_date": *date,
		"num_units":        *units,
		"unit_type":        *unitType,
		"unit_weight":      *unitWeight,
		"substrate_recipe": *substrate,
		"spawn_supplier":   *supplier,
		"notes":            *notes,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created batch %s (%s)\n", batch.BatchLabel, batch.ID)
	return nil
}

func moveBatch(client *ApiClient, id, stage string) error {
	batch, err := client.MoveBatch(id, stage)
	if err != nil {
		return err
	}
	fmt.Printf("batch %s is now in %s\n", batch.BatchLabel, batch.Stage)
	return nil
}

func splitBatch(client *ApiClient, id, qtyArg, colonisationDate string) error {
	qty, err := strconv.Atoi(qtyArg)
	if err != nil {
		return fmt.Errorf("quantity must be an integer: %w", err)
	}
	parent, child, err := client.SplitBatch(id, qty, colonisationDate, "")
	if err != nil {
		return err
	}
	fmt.Printf("split %d units off %s: child %s (%s), parent now %d units\n",
		qty, parent.BatchLabel, child.BatchLabel, child.ID, parent.NumUnits)
	return nil
}

func logHarvest(client *ApiClient, id string, args []string) error {
	weights := make([]float64, 0, len(args))
	for _, a := range args {
		w, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("weight %q must be a number: %w", a, err)
		}
		weights = append(weights, w)
	}
	batch, err := client.LogHarvest(id, weights)
	if err != nil {
		return err
	}
	var total float64
	for _, h := range batch.Harvests {
		total += h.Weight
	}
	fmt.Printf("logged %d harvest(s) for %s, batch total %.2f kg\n", len(weights), batch.BatchLabel, total)
	return nil
}

func showStats(client *ApiClient, query string) error {
	// Accept "30" as shorthand for days=30.
	if query != "" && !strings.Contains(query, "=") {
		query = "days=" + query
	}
	summary, err := client.GetSummary(query)
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func showOverview(client *ApiClient) error {
	overview, err := client.GetOverview()
	if err != nil {
		return err
	}

	fmt.Println("== All time ==")
	printSummary(&overview.AllTime)
	fmt.Println("\n== Last 30 days ==")
	printSummary(&overview.Last30Days)

	if len(overview.WeeklyHarvests) > 0 {
		fmt.Println("\n== Harvests this week ==")
		for variety, kg := range overview.WeeklyHarvests {
			fmt.Printf("  %s: %.2f kg\n", variety, kg)
		}
	}
	return nil
}

func printSummary(s *Summary) {
	fmt.Printf("  batches:            %d\n", s.Count)
	fmt.Printf("  total units:        %d\n", s.TotalUnits)
	fmt.Printf("  contamination:      %d u (%.1f%%)\n", s.ContaminatedUnits, s.ContaminationRate)
	fmt.Printf("  success rate:       %.1f%%\n", s.SuccessRate)
	fmt.Printf("  total harvest:      %.2f kg\n", s.TotalHarvestWeight)
	fmt.Printf("  yield/success unit: %.2f kg\n", s.YieldPerSuccessfulUnit)
	fmt.Printf("  BE approx:          %.1f%%\n", s.YieldPerKgSubstrate*100)
	fmt.Printf("  avg colonisation:   %.1f d\n", s.AvgColonisationDays)
	fmt.Printf("  avg grow time:      %.1f d\n", s.AvgGrowDays)
}
