package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meenmo/dpm/calendar/holidays"
)

func (a *app) holidaysCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "holidays",
		Short: "Manage the public holiday cache",
	}
	c.AddCommand(a.holidaysFetchCommand(), a.holidaysListCommand(), a.holidaysCountriesCommand())
	return c
}

func (a *app) holidaysFetchCommand() *cobra.Command {
	var (
		countries []string
		years     string
	)
	c := &cobra.Command{
		Use:   "fetch",
		Short: "Download calendars into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if years == "" {
				years = a.cfg.Holidays.Years
			}
			ys, err := holidays.YearRange(years)
			if err != nil {
				return err
			}
			req, err := holidays.NewRequest(countries, ys)
			if err != nil {
				return err
			}

			start := time.Now()
			fetched, err := a.holidayClient().Fetch(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := a.holidayStore().SaveAll(fetched); err != nil {
				return err
			}
			a.log.Info("holidays cached",
				zap.Strings("countries", req.Codes),
				zap.Int("years", len(req.Years)),
				zap.Duration("took", time.Since(start)),
			)
			for _, code := range req.Codes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d holidays\n", code, len(fetched[code]))
			}
			return nil
		},
	}
	c.Flags().StringSliceVarP(&countries, "country", "c", nil, "ISO 3166 alpha-2 country codes")
	c.Flags().StringVarP(&years, "years", "y", "", "year or range, e.g. 2020-2025 (default from config)")
	_ = c.MarkFlagRequired("country")
	return c
}

func (a *app) holidaysListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached calendars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := a.holidayStore()
			codes, err := store.Codes()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tHOLIDAYS\tFIRST\tLAST")
			for _, code := range codes {
				set, err := store.Load(code)
				if err != nil {
					return err
				}
				dates := set.Dates()
				first, last := "-", "-"
				if len(dates) > 0 {
					first = dates[0].Format(time.DateOnly)
					last = dates[len(dates)-1].Format(time.DateOnly)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", code, len(dates), first, last)
			}
			return tw.Flush()
		},
	}
}

func (a *app) holidaysCountriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the countries the holiday API covers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.holidayClient().AvailableCountries(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", c.CountryCode, strings.TrimSpace(c.Name))
			}
			return nil
		},
	}
}
