package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// stampCommand creates the stamp command.
func (c *CLI) stampCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stamp",
		Short: "Prefix each stdin line with the time since start",
		Long: `Copy stdin to stdout line by line, prefixing each line with the time elapsed
since the command started, formatted as H:MM:SS.ffffff (the fraction is
omitted on whole seconds, runs over a day start with "N days,"). Useful for
timing play-testers:

  progression stamp > session.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return stamp(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), time.Now, time.Now())
		},
	}
}

// stamp copies lines from r to w as "<elapsed>   <line>". It returns nil at
// end of input and ctx.Err() when cancelled between lines.
func stamp(ctx context.Context, r io.Reader, w io.Writer, now func() time.Time, start time.Time) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s   %s\n", formatElapsed(now().Sub(start)), sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// formatElapsed renders d as [N day(s), ]H:MM:SS[.ffffff], dropping the
// fraction when it is zero.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	const day = 24 * time.Hour
	days := d / day
	d -= days * day
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	us := (d - sec*time.Second) / time.Microsecond

	var prefix string
	switch {
	case days == 1:
		prefix = "1 day, "
	case days > 1:
		prefix = fmt.Sprintf("%d days, ", days)
	}
	out := fmt.Sprintf("%s%d:%02d:%02d", prefix, h, m, sec)
	if us != 0 {
		out += fmt.Sprintf(".%06d", us)
	}
	return out
}
