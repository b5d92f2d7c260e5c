// Package cli implements the command-line interface for computectl.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute/computetest"
	"github.com/greese/dasein-cloud-core-sub001/internal/cache"
	"github.com/greese/dasein-cloud-core-sub001/internal/config"
	"github.com/greese/dasein-cloud-core-sub001/internal/logging"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

const separator = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// CLI encapsulates the command-line interface
type CLI struct {
	rootCmd    *cobra.Command
	logger     *logging.Logger
	configPath string
	logLevel   string
}

// New creates a new CLI instance
func New() *CLI {
	cli := &CLI{logger: logging.GetDefault()}
	cli.buildCommands()
	return cli
}

// Execute runs the CLI
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

// buildCommands constructs the command tree
func (c *CLI) buildCommands() {
	c.rootCmd = &cobra.Command{
		Use:   "computectl",
		Short: "Inspect compute resources through the vendor-neutral abstraction",
		Long: `computectl evaluates resource filters, capability documents and tag
reconciliation offline, against YAML fixtures or a built-in demo cloud.

Examples:
  # Volumes tagged env=prod in the demo cloud
  computectl filter volumes --tag env=prod

  # VMs whose name, description or tag matches a pattern, in a fixture file
  computectl filter vms --file fixtures.yaml --regex 'web-.*'

  # Provider terms for German users
  computectl capabilities --file caps.yaml --locale de
  computectl capabilities --metrics`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initAmbient()
		},
	}

	c.rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to a compute.yaml configuration file")
	c.rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	c.rootCmd.AddCommand(c.filterCmd())
	c.rootCmd.AddCommand(c.capabilitiesCmd())
	c.rootCmd.AddCommand(c.tagsCmd())
	c.rootCmd.AddCommand(c.spotCmd())
	c.rootCmd.AddCommand(c.kindsCmd())
}

// initAmbient loads configuration and installs the configured logger.
func (c *CLI) initAmbient() error {
	if c.configPath != "" {
		cfg, err := config.LoadFile(c.configPath)
		if err != nil {
			return err
		}
		config.Set(cfg)
	}
	cfg := config.Get()

	level := cfg.Logging.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	logger, err := logging.New(logging.Config{
		Level:       logging.ParseLevel(level),
		Format:      cfg.Logging.Format,
		Output:      cfg.Logging.Output,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.SetDefault(logger)
	c.logger = logger
	return nil
}

type filterFlags struct {
	file     string
	tags     map[string]string
	regex    string
	matchAny bool
	states   []string
	dcs      []string
	attached string
	owner    string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "YAML fixture file (default: built-in demo cloud)")
	cmd.Flags().StringToStringVar(&f.tags, "tag", nil, "Tag criterion key=value (repeatable, all must match)")
	cmd.Flags().StringVar(&f.regex, "regex", "", "Whole-string pattern matched against name, description or any tag value")
	cmd.Flags().BoolVar(&f.matchAny, "any", false, "Match when any criterion holds instead of all")
}

// filterCmd creates the filter command tree
func (c *CLI) filterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List resources matching filter criteria",
	}

	cmd.AddCommand(c.filterVolumesCmd())
	cmd.AddCommand(c.filterSnapshotsCmd())
	cmd.AddCommand(c.filterVMsCmd())
	cmd.AddCommand(c.filterImagesCmd())
	return cmd
}

func (c *CLI) filterVolumesCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "List volumes matching filter criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			p, err := c.loadProvider(flags.file)
			if err != nil {
				return err
			}

			f := compute.NewVolumeFilterOptionsMatching(flags.matchAny).WithTags(cloud.Tags(flags.tags))
			if flags.regex != "" {
				f.MatchingRegex(flags.regex)
			}
			if flags.attached != "" {
				f.AttachedTo(flags.attached)
			}
			switch len(flags.dcs) {
			case 0:
			case 1:
				f.InDataCenter(flags.dcs[0])
			default:
				return fmt.Errorf("volumes can be filtered by one data center, got %d: %s",
					len(flags.dcs), strings.Join(flags.dcs, ","))
			}
			if len(flags.states) > 0 {
				states := make([]compute.VolumeState, 0, len(flags.states))
				for _, s := range flags.states {
					states = append(states, compute.VolumeState(strings.ToUpper(s)))
				}
				f.WithStates(states...)
			}
			c.logger.WithFields(logging.Fields{"filter": f.String()}).Debug("Filtering volumes")

			volumes, err := cloud.Collect(p.Services().VolumeSupport().List(ctx, f))
			if err != nil {
				return err
			}
			return printVolumes(cmd.OutOrStdout(), volumes)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.attached, "attached-to", "", "Only volumes attached to this VM ID")
	cmd.Flags().StringSliceVar(&flags.dcs, "dc", nil, "Data center ID (a single value)")
	cmd.Flags().StringSliceVar(&flags.states, "state", nil, "Volume states (e.g., available)")
	return cmd
}

func (c *CLI) filterSnapshotsCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List snapshots matching filter criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			p, err := c.loadProvider(flags.file)
			if err != nil {
				return err
			}

			f := compute.NewSnapshotFilterOptionsMatching(flags.matchAny).WithTags(cloud.Tags(flags.tags))
			if flags.regex != "" {
				f.MatchingRegex(flags.regex)
			}
			if flags.owner != "" {
				f.WithAccountNumber(flags.owner)
			}

			snapshots, err := cloud.Collect(p.Services().SnapshotSupport().List(ctx, f))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := newTable(out, "ID", "NAME", "STATE", "VOLUME", "SIZE", "PUBLIC", "TAGS")
			for _, s := range snapshots {
				table.Append([]string{s.ID, s.Name, string(s.State), s.VolumeID,
					fmt.Sprintf("%dGB", s.SizeGB), fmt.Sprint(s.Public), formatTags(s.Tags)})
			}
			return render(out, table, len(snapshots), "snapshots")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.owner, "owner", "", "Owner account number")
	return cmd
}

func (c *CLI) filterVMsCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:     "vms",
		Aliases: []string{"virtual-machines"},
		Short:   "List virtual machines matching filter criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			p, err := c.loadProvider(flags.file)
			if err != nil {
				return err
			}

			f := compute.NewVMFilterOptionsMatching(flags.matchAny).WithTags(cloud.Tags(flags.tags))
			if flags.regex != "" {
				f.MatchingRegex(flags.regex)
			}
			if len(flags.dcs) > 0 {
				f.WithDataCenterIDs(flags.dcs...)
			}
			if len(flags.states) > 0 {
				states := make([]compute.VmState, 0, len(flags.states))
				for _, s := range flags.states {
					states = append(states, compute.VmState(strings.ToUpper(s)))
				}
				f.WithVMStates(states...)
			}

			vms, err := cloud.Collect(p.Services().VirtualMachineSupport().List(ctx, f))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := newTable(out, "ID", "NAME", "STATE", "PRODUCT", "DATA CENTER", "TAGS")
			for _, vm := range vms {
				table.Append([]string{vm.ID, vm.Name, string(vm.State), vm.ProductID, vm.DataCenterID, formatTags(vm.Tags)})
			}
			return render(out, table, len(vms), "virtual machines")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&flags.dcs, "dc", nil, "Data center IDs")
	cmd.Flags().StringSliceVar(&flags.states, "state", nil, "VM states (e.g., running,stopped)")
	return cmd
}

func (c *CLI) filterImagesCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "images",
		Short: "List machine images matching filter criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			p, err := c.loadProvider(flags.file)
			if err != nil {
				return err
			}

			f := compute.NewMachineImageFilterOptionsMatching(flags.matchAny).WithTags(cloud.Tags(flags.tags))
			if flags.regex != "" {
				f.MatchingRegex(flags.regex)
			}
			if flags.owner != "" {
				f.WithAccountNumber(flags.owner)
			}

			images, err := cloud.Collect(p.Services().ImageSupport().List(ctx, f))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := newTable(out, "ID", "NAME", "STATE", "PLATFORM", "ARCH", "PUBLIC", "TAGS")
			for _, m := range images {
				table.Append([]string{m.ID, m.Name, fmt.Sprint(m.State), fmt.Sprint(m.Platform),
					fmt.Sprint(m.Architecture), fmt.Sprint(m.Public), formatTags(m.Tags)})
			}
			return render(out, table, len(images), "images")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.owner, "owner", "", "Owner account number")
	return cmd
}

// capabilitiesCmd creates the capabilities command
func (c *CLI) capabilitiesCmd() *cobra.Command {
	var (
		file    string
		locale  string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Show what a provider supports",
		Long: `Show affinity group, snapshot and VM scaling capabilities from a YAML
capability document, or from the built-in demo cloud.

Examples:
  computectl capabilities
  computectl capabilities --file caps.yaml --locale de
  computectl capabilities --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			doc := computetest.NewProvider(computetest.DemoFixtures().Provider).Capabilities()
			if file != "" {
				loaded, err := compute.LoadCapabilityDocumentFile(file)
				if err != nil {
					return err
				}
				doc = loaded
			}
			if locale == "" {
				locale = config.Get().Locale
			}
			out := cmd.OutOrStdout()
			if err := c.printCapabilities(ctx, out, doc, cloud.ParseLocale(locale)); err != nil {
				return err
			}
			if !metrics {
				return nil
			}
			reg := prometheus.NewRegistry()
			reg.MustRegister(cache.Collectors()...)
			return printMetrics(out, reg)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML capability document (default: built-in demo cloud)")
	cmd.Flags().StringVar(&locale, "locale", "", "BCP 47 locale for provider terms (default: configured locale)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Print capability cache metrics after the table")
	return cmd
}

func (c *CLI) printCapabilities(ctx context.Context, out io.Writer, doc *compute.CapabilityDocument, locale language.Tag) error {
	m := cache.New(config.Get().Capabilities.CacheTTL)
	ag := compute.NewCachedAffinityGroupCapabilities(doc.Provider, doc.AffinityGroupCapabilities(), m)
	snaps := compute.NewCachedSnapshotCapabilities(doc.Provider, doc.SnapshotCapabilities(), m)
	scaling := compute.NewCachedVMScalingCapabilities(doc.Provider, compute.VMScalingCapabilitiesFunc(doc.VMScalingCapabilities), m)

	agTerm, err := ag.ProviderTermForAffinityGroup(ctx, locale)
	if err != nil {
		return err
	}
	snapTerm, err := snaps.ProviderTermForSnapshot(ctx, locale)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, separator)
	fmt.Fprintf(out, "CAPABILITIES: %s (locale %s)\n", color.New(color.Bold).Sprint(doc.Provider.DisplayName()), locale)
	fmt.Fprintln(out, separator)

	table := newTable(out, "RESOURCE", "CAPABILITY", "VALUE")

	rows := []struct {
		resource, capability string
		value                func() (interface{}, error)
	}{
		{agTerm, "can create", func() (interface{}, error) { return ag.CanCreate(ctx) }},
		{agTerm, "can delete", func() (interface{}, error) { return ag.CanDelete(ctx) }},
		{agTerm, "can modify", func() (interface{}, error) { return ag.CanModify(ctx) }},
		{agTerm, "maximum count", func() (interface{}, error) { n, err := ag.MaximumAffinityGroupCount(ctx); return formatCount(n), err }},
		{agTerm, "data center", func() (interface{}, error) { return ag.IdentifyDataCenterRequirement(ctx) }},
		{snapTerm, "creation", func() (interface{}, error) { return snaps.SupportsSnapshotCreation(ctx) }},
		{snapTerm, "copying", func() (interface{}, error) { return snaps.SupportsSnapshotCopying(ctx) }},
		{snapTerm, "sharing", func() (interface{}, error) { return snaps.SupportsSnapshotSharing(ctx) }},
		{snapTerm, "public sharing", func() (interface{}, error) { return snaps.SupportsSnapshotSharingWithPublic(ctx) }},
		{snapTerm, "maximum count", func() (interface{}, error) { n, err := snaps.MaximumSnapshotCount(ctx); return formatCount(n), err }},
		{snapTerm, "attachment", func() (interface{}, error) { return snaps.IdentifyAttachmentRequirement(ctx) }},
	}
	for _, r := range rows {
		v, err := r.value()
		if err != nil {
			return err
		}
		table.Append([]string{r.resource, r.capability, fmt.Sprint(v)})
	}

	sc, err := scaling.ScalingCapabilities(ctx)
	if err != nil {
		return err
	}
	table.AppendBulk([][]string{
		{"vm scaling", "new product", fmt.Sprint(sc.SupportsNewProduct)},
		{"vm scaling", "product change", fmt.Sprint(sc.SupportsProductChange)},
		{"vm scaling", "product size change", fmt.Sprint(sc.SupportsProductSizeChange)},
		{"vm scaling", "alter for new volume", sc.AlterVmForNewVolume.String()},
		{"vm scaling", "alter for volume change", sc.AlterVmForVolumeChange.String()},
	})
	table.Render()
	return nil
}

// printMetrics writes every gathered counter as name{labels} value.
func printMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	fmt.Fprintln(out)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			fmt.Fprintf(out, "%s{%s} %v\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}

// tagsCmd creates the tags command tree
func (c *CLI) tagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag reconciliation helpers",
	}

	var current, desired string
	diff := &cobra.Command{
		Use:   "diff",
		Short: "Print the tag keys a reconciliation would remove",
		Long: `Print the keys present in the current tag set but absent from the
desired one. Keys whose value changes are updated, not removed.

Example:
  computectl tags diff --current a=1,b=2,c=3 --desired a=1,d=4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := cloud.ParseTags(current)
			if err != nil {
				return err
			}
			want, err := cloud.ParseTags(desired)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			removals := cloud.TagsForDelete(cur, want)
			if len(removals) == 0 {
				fmt.Fprintln(out, "No tags to remove")
				return nil
			}
			for _, k := range removals {
				fmt.Fprintf(out, "- %s=%s\n", k, cur[k])
			}
			return nil
		},
	}
	diff.Flags().StringVar(&current, "current", "", "Current tags as k=v,k2=v2")
	diff.Flags().StringVar(&desired, "desired", "", "Desired tags as k=v,k2=v2")

	cmd.AddCommand(diff)
	return cmd
}

// spotCmd creates the spot price command
func (c *CLI) spotCmd() *cobra.Command {
	var (
		file     string
		products []string
		dcs      []string
		matchAny bool
	)

	cmd := &cobra.Command{
		Use:   "spot",
		Short: "Show spot price histories",
		Long: `Show spot price histories for products and data centers. At least one
criterion is needed: an empty spot price filter matches nothing.

Example:
  computectl spot --product m.small`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			p, err := c.loadProvider(file)
			if err != nil {
				return err
			}

			f := compute.NewSPHistoryFilterOptionsMatching(matchAny).
				WithProductIDs(products...).
				WithDataCenterIDs(dcs...)
			histories, err := cloud.Collect(p.Services().VirtualMachineSupport().SpotPriceHistories(ctx, f))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := newTable(out, "PRODUCT", "DATA CENTER", "POINTS", "LATEST", "AVERAGE")
			for _, h := range histories {
				latest := "-"
				if pt, ok := h.Latest(); ok {
					latest = pt.Price.String()
				}
				table.Append([]string{h.ProductID, h.DataCenterID, fmt.Sprint(len(h.Prices)), latest, h.Average().StringFixed(4)})
			}
			return render(out, table, len(histories), "spot price histories")
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML fixture file (default: built-in demo cloud)")
	cmd.Flags().StringSliceVar(&products, "product", nil, "Product IDs")
	cmd.Flags().StringSliceVar(&dcs, "dc", nil, "Data center IDs")
	cmd.Flags().BoolVar(&matchAny, "any", false, "Match when any criterion holds instead of all")
	return cmd
}

// kindsCmd creates the kinds command
func (c *CLI) kindsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the resource kinds a provider supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProvider(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			svc := p.Services()
			yes, no := color.New(color.FgGreen).Sprint("✓"), color.New(color.FgRed).Sprint("✗")
			for _, kind := range compute.AllKinds {
				mark := no
				if compute.HasSupport(svc, kind) {
					mark = yes
				}
				fmt.Fprintf(out, "%s %s\n", mark, kind)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML fixture file (default: built-in demo cloud)")
	return cmd
}

// loadProvider builds the in-memory provider from a fixture file, or the
// demo data set when path is empty.
func (c *CLI) loadProvider(path string) (*computetest.Provider, error) {
	if path == "" {
		c.logger.Debug("Using built-in demo fixtures")
		return computetest.NewProviderFromFixtures(computetest.DemoFixtures()), nil
	}
	f, err := computetest.LoadFixturesFile(path)
	if err != nil {
		return nil, err
	}
	c.logger.WithFields(logging.Fields{"file": path}).Info("Loaded fixtures")
	return computetest.NewProviderFromFixtures(f), nil
}

func printVolumes(out io.Writer, volumes []*compute.Volume) error {
	table := newTable(out, "ID", "NAME", "STATE", "SIZE", "ATTACHED TO", "DATA CENTER", "TAGS")
	for _, v := range volumes {
		attached := v.AttachedTo
		if attached == "" {
			attached = "-"
		}
		table.Append([]string{v.ID, v.Name, string(v.State), fmt.Sprintf("%dGB", v.SizeGB),
			attached, v.DataCenterID, formatTags(v.Tags)})
	}
	return render(out, table, len(volumes), "volumes")
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}

// render draws the table, or a single "No <noun> matched" line when n is 0.
func render(out io.Writer, table *tablewriter.Table, n int, noun string) error {
	if n == 0 {
		_, err := fmt.Fprintf(out, "No %s matched\n", noun)
		return err
	}
	table.Render()
	return nil
}

func formatTags(t cloud.Tags) string {
	if len(t) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(t))
	for _, k := range t.Keys() {
		parts = append(parts, k+"="+t[k])
	}
	return strings.Join(parts, ",")
}

func formatCount(n int) string {
	if n == compute.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}
