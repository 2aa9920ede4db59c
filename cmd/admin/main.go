// Command admin runs maintenance tasks against the school database: migrations, seeding and
// account administration.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/bootstrap"
	"github.com/yigit/schoolms/internal/config"
	"github.com/yigit/schoolms/internal/pkg/logger"
	"github.com/yigit/schoolms/internal/seed"
)

// env is what every command runs against.
type env struct {
	cfg  *config.Config
	deps *bootstrap.Dependencies
}

func (e *env) close() {
	if e.deps != nil {
		e.deps.DB.Close()
	}
}

// open loads configuration and connects to the database, optionally applying migrations first.
func open(c *cli.Context, migrate bool) (*env, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return nil, err
	}
	database, err := bootstrap.SetupDatabase(c.Context, cfg, lgr, migrate)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, deps: bootstrap.BuildDependencies(cfg, database, lgr)}, nil
}

// withEnv adapts a command body to a cli.ActionFunc that owns the database connection.
func withEnv(migrate bool, run func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := open(c, migrate)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer e.close()
		if err := run(c, e); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "populate the database with synthetic departments, subjects, students and records",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "students", Aliases: []string{"n"}, Usage: "number of students to create (default from config)"},
			&cli.Int64Flag{Name: "seed", Usage: "random seed; 0 picks one (default from config)"},
			&cli.IntFlag{Name: "marks-limit", Usage: "only back-fill marks for the first N students, 0 for all"},
			&cli.IntFlag{Name: "attendance-days", Value: 20, Usage: "weekdays of attendance to generate, 0 to skip"},
			&cli.BoolFlag{Name: "fees", Value: true, Usage: "create a pending fee for students without one"},
		},
		Action: withEnv(true, func(c *cli.Context, e *env) error {
			students := e.cfg.Seed.Students
			if c.IsSet("students") {
				students = c.Int("students")
			}
			randomSeed := e.cfg.Seed.RandomSeed
			if c.IsSet("seed") {
				randomSeed = c.Int64("seed")
			}

			report, err := bootstrap.NewSeeder(e.deps, randomSeed).Run(c.Context, seed.Options{
				Students:       students,
				MarksLimit:     c.Int("marks-limit"),
				AttendanceDays: c.Int("attendance-days"),
				Fees:           c.Bool("fees"),
			})
			fmt.Fprintf(c.App.Writer,
				"departments: %d\nsubjects: %d\nstudents: %d\nmarks: %d\nattendance: %d\nfees: %d\n",
				report.Departments, report.Subjects, report.Students, report.Marks, report.Attendance, report.Fees)
			return err
		}),
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "apply pending SQL migrations",
		Action: withEnv(true, func(*cli.Context, *env) error { return nil }),
	}
}

func createDepartmentCommand() *cli.Command {
	return &cli.Command{
		Name:      "create-department",
		Usage:     "create a department",
		ArgsUsage: "NAME",
		Action: withEnv(false, func(c *cli.Context, e *env) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one department name")
			}
			dept, err := e.deps.DepartmentService.Create(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "created department %d %q\n", dept.ID, dept.Name)
			return nil
		}),
	}
}

func createSubjectCommand() *cli.Command {
	return &cli.Command{
		Name:      "create-subject",
		Usage:     "create a subject",
		ArgsUsage: "NAME",
		Action: withEnv(false, func(c *cli.Context, e *env) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one subject name")
			}
			subject, err := e.deps.SubjectService.Create(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "created subject %d %q\n", subject.ID, subject.Name)
			return nil
		}),
	}
}

func linkProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "link-profile",
		Usage: "assign a role to a registered user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "role", Required: true, Usage: "staff, student or parent"},
			&cli.StringFlag{Name: "student", Usage: "the user's own student identifier (student role)"},
			&cli.StringFlag{Name: "child", Usage: "identifier of the related student (parent role)"},
		},
		Action: withEnv(false, func(c *cli.Context, e *env) error {
			profile, err := e.deps.RecordsService.LinkProfile(c.Context, &dto.LinkProfileRequest{
				Username:                 c.String("username"),
				Role:                     c.String("role"),
				StudentIdentifier:        c.String("student"),
				RelatedStudentIdentifier: c.String("child"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s is now %s\n", profile.Username, profile.Role)
			return nil
		}),
	}
}

func createStaffCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-staff",
		Usage: "register a user and give it the staff role",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SCHOOLMS_STAFF_PASSWORD"}},
			&cli.StringFlag{Name: "first-name", Value: "School"},
			&cli.StringFlag{Name: "last-name", Value: "Staff"},
		},
		Action: withEnv(false, func(c *cli.Context, e *env) error {
			user, err := e.deps.AuthService.Register(c.Context, &dto.RegisterRequest{
				FirstName: c.String("first-name"),
				LastName:  c.String("last-name"),
				Username:  c.String("username"),
				Password:  c.String("password"),
			})
			if err != nil {
				return err
			}
			if _, err := e.deps.RecordsService.LinkProfile(c.Context, &dto.LinkProfileRequest{
				Username: user.Username,
				Role:     string(models.RoleStaff),
			}); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "created staff user %d %q\n", user.ID, user.Username)
			return nil
		}),
	}
}

func pruneSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune-sessions",
		Usage: "delete expired and revoked sessions",
		Action: withEnv(false, func(c *cli.Context, e *env) error {
			n, err := e.deps.AuthService.PruneSessions(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "removed %d sessions\n", n)
			return nil
		}),
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "schoolms-admin",
		Usage: "school management maintenance commands",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   bootstrap.DefaultConfigPath,
				EnvVars: []string{"SCHOOLMS_CONFIG"},
				Usage:   "path to the YAML configuration file",
			},
		},
		Commands: []*cli.Command{
			seedCommand(),
			migrateCommand(),
			createDepartmentCommand(),
			createSubjectCommand(),
			linkProfileCommand(),
			createStaffCommand(),
			pruneSessionsCommand(),
		},
	}
}

func main() {
	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		logger.Fatal().Err(err).Msg("admin command failed")
	}
}
