package cli

import (
	"fmt"
	"time"

	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/spf13/cobra"
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "Only files whose name contains this text")
	cmd.Flags().String("type", "", "Only files whose type contains this text (image, document, video, audio, other)")
	cmd.Flags().Float64("min-size", 0, "Minimum size in MB")
	cmd.Flags().Float64("max-size", 0, "Maximum size in MB")
	cmd.Flags().String("start", "", "Uploaded on or after this day (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Uploaded on or before this day (YYYY-MM-DD)")
}

// criteriaFromFlags reads the filter flags. Size bounds are only set when
// their flag was given, so --min-size 0 is a real bound.
func criteriaFromFlags(cmd *cobra.Command) (domain.FilterCriteria, error) {
	flags := cmd.Flags()

	var criteria domain.FilterCriteria

	criteria.SearchText, _ = flags.GetString("search")
	criteria.FileType, _ = flags.GetString("type")

	for _, bound := range []struct {
		flag   string
		target **int64
	}{
		{flag: "min-size", target: &criteria.MinSize},
		{flag: "max-size", target: &criteria.MaxSize},
	} {
		if !flags.Changed(bound.flag) {
			continue
		}

		mb, err := flags.GetFloat64(bound.flag)
		if err != nil {
			return criteria, err
		}
		if mb < 0 {
			return criteria, fmt.Errorf("--%s must not be negative", bound.flag)
		}

		bytes := domain.MBToBytes(mb)
		*bound.target = &bytes
	}

	for flag, target := range map[string]*time.Time{
		"start": &criteria.StartDate,
		"end":   &criteria.EndDate,
	} {
		value, _ := flags.GetString(flag)
		if value == "" {
			continue
		}

		day, err := domain.ParseDate(value, nil)
		if err != nil {
			return criteria, fmt.Errorf("--%s: %w", flag, err)
		}
		*target = day
	}

	return criteria.Normalize(), nil
}
