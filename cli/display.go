package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/k0kubun/pp/v3"
	"github.com/olekukonko/tablewriter"
	"github.com/tidwall/gjson"

	"github.com/serisow/lesocle-seeder/pipeline"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

const (
	bannerWidth      = 60
	tokenPreviewLen  = 20
	recentRunsInView = 5
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func displayWelcome(w io.Writer, apiBaseURL string) {
	line := strings.Repeat("═", bannerWidth)
	fmt.Fprintln(w, "\n"+line)
	fmt.Fprintln(w, bold("  Database Seeder - Interactive CLI"))
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "  API: %s\n", apiBaseURL)
	fmt.Fprintln(w, line+"\n")
}

func displayGoodbye(w io.Writer) {
	line := strings.Repeat("═", bannerWidth)
	fmt.Fprintln(w, "\n"+line)
	fmt.Fprintln(w, "  Thank you for using Database Seeder!")
	fmt.Fprintln(w, line+"\n")
}

func displayActionHeader(w io.Writer, name string) {
	line := strings.Repeat("─", bannerWidth)
	fmt.Fprintln(w, "\n"+line)
	fmt.Fprintf(w, "  %s\n", bold(name))
	fmt.Fprintln(w, line)
}

func displaySuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "\n"+green("✓ "+fmt.Sprintf(format, args...)))
}

func displayFailure(w io.Writer, what string, err error) {
	fmt.Fprintf(w, "\n%s %v\n", red("✗ "+what+":"), err)
}

func displayWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, yellow(fmt.Sprintf(format, args...)))
}

// displayResponseBody prints the backend payload carried by a failed request.
func displayResponseBody(w io.Writer, err error) {
	var failed *pipeline_type.RequestFailedError
	if !errors.As(err, &failed) || len(failed.Body) == 0 {
		return
	}
	fmt.Fprint(w, "\nAPI Response: ")
	if gjson.ValidBytes(failed.Body) {
		fmt.Fprintln(w, dump(gjson.ParseBytes(failed.Body).Value()))
		return
	}
	fmt.Fprintln(w, string(failed.Body))
}

// dumpContext prints every context entry, keys sorted.
func dumpContext(w io.Writer, pctx *pipeline_type.Context) {
	fmt.Fprintln(w, "\nContext Summary:")
	for _, key := range pctx.Keys() {
		value, _ := pctx.Get(key)
		fmt.Fprintf(w, "  %s: %s\n", key, dump(value))
	}
}

func dump(v any) string {
	printer := pp.New()
	printer.SetColoringEnabled(false)
	return printer.Sprint(v)
}

func renderStatus(w io.Writer, s *Session) {
	line := strings.Repeat("─", bannerWidth)
	fmt.Fprintln(w, "\n"+line)
	fmt.Fprintln(w, "Session Status:")

	if !s.IsAuthenticated() {
		fmt.Fprintf(w, "  Authenticated: %s\n", red("✗ No"))
	} else {
		fmt.Fprintf(w, "  Authenticated: %s\n", green("✓ Yes"))
		clientID, _ := pipeline_type.Lookup(s.Context, pipeline_type.ClientID)
		token, _ := pipeline_type.Lookup(s.Context, pipeline_type.BearerToken)
		fmt.Fprintf(w, "  Client ID: %s\n", clientID)
		fmt.Fprintf(w, "  Bearer Token: %s\n", previewToken(token))
		if exp, ok := tokenExpiry(token); ok {
			fmt.Fprintf(w, "  Token Expires: %s (%s)\n", exp.Format(time.RFC3339), humanize.Time(exp))
		}
	}
	fmt.Fprintf(w, "  Credentials: %s\n", s.Config.CredentialSource())
	fmt.Fprintf(w, "  Context Keys: %d\n", s.Context.Len())

	if runs := s.Executor.Store().Recent(recentRunsInView); len(runs) > 0 {
		fmt.Fprintln(w, "\nRecent Steps:")
		renderRuns(w, runs)
	}
	fmt.Fprintln(w, line+"\n")
}

func previewToken(token string) string {
	if token == "" {
		return "N/A"
	}
	if len(token) > tokenPreviewLen {
		token = token[:tokenPreviewLen]
	}
	return token + "..."
}

// tokenExpiry reads the exp claim of a JWT bearer token without verifying
// it. Opaque tokens report false.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func renderRuns(w io.Writer, runs []*pipeline.ExecutionResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Step", "Type", "Status", "Duration", "Error"})
	for _, run := range runs {
		table.Append([]string{
			run.StepID,
			run.StepType,
			string(run.Status),
			run.Duration().Round(time.Millisecond).String(),
			run.ErrorMessage,
		})
	}
	table.Render()
}

func renderActivities(w io.Writer, activities []pipeline_type.Activity) {
	if len(activities) == 0 {
		fmt.Fprintln(w, "  No activities found.")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Title", "Supplier", "Status", "ID"})
	for i, a := range activities {
		table.Append([]string{strconv.Itoa(i + 1), a.Title, a.Supplier, a.Status, a.ID})
	}
	table.Render()
}

func renderUsers(w io.Writer, users []pipeline_type.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "  No users found.")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Username", "Name", "Email", "ID"})
	for i, u := range users {
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		table.Append([]string{strconv.Itoa(i + 1), u.Username, name, u.Email, u.ID})
	}
	table.Render()
}

func renderRegistrations(w io.Writer, registrations []pipeline_type.Registration) {
	fmt.Fprintf(w, "\nFound %d registration(s):\n", len(registrations))
	if len(registrations) == 0 {
		fmt.Fprintln(w, "  No registrations found for this user.")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Activity", "Registration ID", "Status", "Progress", "Start Date", "Completed At"})
	for i, r := range registrations {
		progress := ""
		if r.Progress != nil {
			progress = fmt.Sprintf("%.0f%%", *r.Progress)
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.DisplayTitle(),
			r.Identifier(),
			r.Status,
			progress,
			r.StartDate,
			r.CompletedAt,
		})
	}
	table.Render()
}
