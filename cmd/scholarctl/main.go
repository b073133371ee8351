package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/client"
	"github.com/yigit/scholarship/internal/pkg/logger"
)

const (
	cliSession = "_scholarctl"
	keyCurrent = "current"
)

func main() {
	logger.Configure(logger.Config{Level: logger.ParseLevel(os.Getenv("LOG_LEVEL")), Pretty: true, Output: os.Stderr})

	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("scholarctl failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "scholarctl",
		Usage: "walk a scholarship application through verify, personal, family and track",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:8080",
				Usage:   "base URL of the intake API",
				EnvVars: []string{"SCHOLARCTL_API"},
			},
			&cli.StringFlag{
				Name:    "state",
				Value:   defaultStatePath(),
				Usage:   "file holding workflow state between commands",
				EnvVars: []string{"SCHOLARCTL_STATE"},
			},
			&cli.StringFlag{
				Name:    "session",
				Usage:   "workflow session id (defaults to the one started by the last verify)",
				EnvVars: []string{"SCHOLARCTL_SESSION"},
			},
		},
		Commands: []*cli.Command{
			verifyCommand(),
			personalCommand(),
			familyCommand(),
			trackCommand(),
			verifiedDataCommand(),
			healthCommand(),
		},
	}
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "scholarctl", "sessions.db")
}

// workflow opens the state file and resolves the session. When start is set
// a new session is created and remembered as current.
func workflow(c *cli.Context, start bool) (*client.Workflow, error) {
	store, err := client.NewSessionStore(c.String("state"), client.DefaultSessionTTL)
	if err != nil {
		return nil, err
	}

	sessionID := c.String("session")
	switch {
	case sessionID != "":
	case start:
		sessionID = client.NewSessionID()
	default:
		ok, err := store.Get(cliSession, keyCurrent, &sessionID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no active session, run verify first or pass --session")
		}
	}

	if err := store.Set(cliSession, keyCurrent, sessionID); err != nil {
		return nil, err
	}
	return client.NewWorkflow(client.New(c.String("api")), store, sessionID), nil
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "look up the Aadhaar and CAP records and start a session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "aadhar", Usage: "12 digit Aadhaar number", Required: true},
			&cli.StringFlag{Name: "cap", Usage: "CAP ID", Required: true},
		},
		Action: func(c *cli.Context) error {
			wf, err := workflow(c, true)
			if err != nil {
				return err
			}
			data, err := wf.Verify(c.Context, c.String("aadhar"), c.String("cap"))
			if err != nil {
				return err
			}
			logger.Info().Str("session", wf.SessionID()).Msg("Verification stored")
			return printJSON(c, data)
		},
	}
}

func personalCommand() *cli.Command {
	return &cli.Command{
		Name:  "personal",
		Usage: "submit personal details pre-filled from the verified records",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "set", Usage: "override a field, e.g. --set address=\"Hostel 4\""},
			&cli.BoolFlag{Name: "dry-run", Usage: "print the pre-filled form without submitting"},
		},
		Action: func(c *cli.Context) error {
			wf, err := workflow(c, false)
			if err != nil {
				return err
			}
			req, err := wf.PrefillPersonalDetails()
			if err != nil {
				return err
			}
			if err := applyOverrides(req, c.StringSlice("set")); err != nil {
				return err
			}
			if c.Bool("dry-run") {
				return printJSON(c, req)
			}
			id, err := wf.SubmitPersonalDetails(c.Context, req)
			if err != nil {
				return err
			}
			return printJSON(c, dto.PersonalDetailsResponse{Message: "Personal details saved successfully", ID: id})
		},
	}
}

// applyOverrides sets JSON-named fields of req from key=value pairs
func applyOverrides(req *dto.PersonalDetailsRequest, pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return err
	}
	fields := map[string]string{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}

	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("invalid override %q, expected key=value", p)
		}
		if _, known := fields[key]; !known {
			return fmt.Errorf("unknown personal details field %q", key)
		}
		fields[key] = value
	}

	raw, err = json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, req)
}

func familyCommand() *cli.Command {
	return &cli.Command{
		Name:  "family",
		Usage: "submit family details for the session's application",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Usage: "current year of study (1-4)", Required: true},
			&cli.Int64Flag{Name: "application-id", Usage: "target application (defaults to the session's)"},
			&cli.BoolFlag{Name: "student-salaried"},
			&cli.BoolFlag{Name: "father-alive", Value: true},
			&cli.BoolFlag{Name: "father-working", Value: true},
			&cli.StringFlag{Name: "father-occupation"},
			&cli.BoolFlag{Name: "mother-alive", Value: true},
			&cli.BoolFlag{Name: "mother-working"},
			&cli.StringFlag{Name: "mother-occupation"},
			&cli.PathFlag{Name: "marksheet", Usage: "previous year marksheet (PDF/JPEG/PNG), required unless --year 1"},
		},
		Action: func(c *cli.Context) error {
			wf, err := workflow(c, false)
			if err != nil {
				return err
			}

			form := &client.FamilyForm{
				ApplicationID:    c.Int64("application-id"),
				StudentSalaried:  c.Bool("student-salaried"),
				FatherAlive:      c.Bool("father-alive"),
				FatherWorking:    c.Bool("father-working"),
				FatherOccupation: c.String("father-occupation"),
				MotherAlive:      c.Bool("mother-alive"),
				MotherWorking:    c.Bool("mother-working"),
				MotherOccupation: c.String("mother-occupation"),
				YearOfStudy:      c.Int("year"),
			}
			if path := c.Path("marksheet"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read marksheet: %w", err)
				}
				form.Marksheet = &client.Marksheet{Filename: filepath.Base(path), Data: data}
			}

			id, err := wf.SubmitFamilyDetails(c.Context, form)
			if err != nil {
				return err
			}
			return printJSON(c, dto.FamilyDetailsResponse{Message: "Family details saved successfully", ApplicationID: id})
		},
	}
}

func trackCommand() *cli.Command {
	return &cli.Command{
		Name:      "track",
		Usage:     "show an application (defaults to the session's)",
		ArgsUsage: "[application-id]",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			var wf *client.Workflow
			var err error
			if id != "" && c.String("session") == "" {
				store, serr := client.NewSessionStore(c.String("state"), client.DefaultSessionTTL)
				if serr != nil {
					return serr
				}
				wf = client.NewWorkflow(client.New(c.String("api")), store, client.NewSessionID())
			} else if wf, err = workflow(c, false); err != nil {
				return err
			}

			view, err := wf.Track(c.Context, id)
			if err != nil {
				return err
			}
			return printJSON(c, view)
		},
	}
}

func verifiedDataCommand() *cli.Command {
	return &cli.Command{
		Name:  "verified-data",
		Usage: "round-trip the session's verified data through the server cookie endpoint",
		Action: func(c *cli.Context) error {
			wf, err := workflow(c, false)
			if err != nil {
				return err
			}
			data, err := wf.VerifiedData()
			if err != nil {
				return err
			}
			echoed, err := client.New(c.String("api")).VerifiedData(c.Context, data)
			if err != nil {
				return err
			}
			return printJSON(c, echoed)
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check the API and its database",
		Action: func(c *cli.Context) error {
			h, err := client.New(c.String("api")).Health(c.Context)
			if err != nil {
				return err
			}
			return printJSON(c, h)
		},
	}
}
