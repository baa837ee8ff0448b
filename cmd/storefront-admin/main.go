// Command storefront-admin is the admin client for the storefront API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/streck/storefront-api/internal/client"
	"github.com/streck/storefront-api/internal/guard"
)

// errUsage is returned after usage has been printed for a bad invocation.
var errUsage = errors.New("invalid usage")

type app struct {
	api     *client.Client
	storage *guard.FileStorage
	verify  bool
	out     io.Writer
	errOut  io.Writer
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	code := exitCode(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
	cancel()
	os.Exit(code)
}

func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

// run parses the global flags and dispatches one command. Errors other than
// usage and guard rejections are printed to errOut before returning.
func run(ctx context.Context, argv []string, out, errOut io.Writer) error {
	global := flag.NewFlagSet("storefront-admin", flag.ContinueOnError)
	global.SetOutput(errOut)
	server := global.String("server", envOr("STOREFRONT_API_URL", "http://localhost:8080"), "API base URL")
	verify := global.Bool("verify", false, "verify the stored token with the API before running protected commands")
	storagePath := global.String("storage", "", "local storage file (default: user config dir)")
	global.Usage = func() { printUsage(errOut) }
	if err := global.Parse(argv); err != nil {
		return errUsage
	}

	args := global.Args()
	if len(args) < 1 {
		printUsage(errOut)
		return errUsage
	}

	path := *storagePath
	if path == "" {
		p, err := guard.DefaultStoragePath()
		if err != nil {
			return report(errOut, err)
		}
		path = p
	}

	a := &app{
		api:     client.New(*server),
		storage: guard.NewFileStorage(path),
		verify:  *verify,
		out:     out,
		errOut:  errOut,
	}

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "login":
		err = a.cmdLogin(ctx, rest)
	case "logout":
		err = a.cmdLogout()
	case "whoami":
		err = a.protected(ctx, a.cmdWhoami)
	case "product-types":
		err = a.protected(ctx, func(ctx context.Context, d guard.Decision) error {
			return a.cmdProductTypes(ctx, d, rest)
		})
	case "upload":
		err = a.protected(ctx, func(ctx context.Context, d guard.Decision) error {
			return a.cmdUpload(ctx, d, rest)
		})
	case "help", "-h", "--help":
		printUsage(out)
	default:
		fmt.Fprintf(errOut, "Unknown command: %s\n", cmd)
		printUsage(errOut)
		return errUsage
	}

	if err != nil && !errors.Is(err, guard.ErrUnauthenticated) && !errors.Is(err, errUsage) {
		return report(errOut, err)
	}
	return err
}

func report(w io.Writer, err error) error {
	color.New(color.FgRed).Fprintf(w, "Error: %v\n", err)
	return err
}

func printUsage(w io.Writer) {
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(w, "Usage: storefront-admin [-server URL] [-verify] [-storage FILE] <command> [args]")
	fmt.Fprintln(w)
	yellow.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  login -email E -password P          Sign in and store the admin token")
	fmt.Fprintln(w, "  logout                              Remove the stored token")
	fmt.Fprintln(w, "  whoami                              Show the stored admin")
	fmt.Fprintln(w, "  product-types list [-status S]      List product types")
	fmt.Fprintln(w, "  product-types create -name N -slug S [-description D] [-status S] [-sort N] [-key K]")
	fmt.Fprintln(w, "  upload <file>...                    Upload images")
	fmt.Fprintln(w)
	yellow.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  STOREFRONT_API_URL    API base URL (default: http://localhost:8080)")
	fmt.Fprintln(w)
}

// protected runs fn behind the client-side guard.
func (a *app) protected(ctx context.Context, fn func(context.Context, guard.Decision) error) error {
	var opts []guard.Option
	if a.verify {
		opts = append(opts, guard.WithVerifier(a.api))
	}
	g := guard.New(a.storage, opts...)

	d, err := g.Protect(ctx, func(d guard.Decision) error {
		return fn(ctx, d)
	})
	if errors.Is(err, guard.ErrUnauthenticated) {
		color.New(color.FgYellow).Fprintf(a.errOut, "Not signed in. Run: storefront-admin %s\n", d.Redirect)
		if d.Reason != nil {
			fmt.Fprintf(a.errOut, "  (%v)\n", d.Reason)
		}
	}
	return err
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	resp, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}

	user, err := json.Marshal(resp.User)
	if err != nil {
		return err
	}
	if err := a.storage.SetItem(guard.TokenKey, resp.Token); err != nil {
		return err
	}
	if err := a.storage.SetItem(guard.UserKey, string(user)); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(a.out, "%s\n", resp.Message)
	fmt.Fprintf(a.out, "  Signed in as %s (%s)\n", resp.User.Email, resp.User.Role)
	return nil
}

func (a *app) cmdLogout() error {
	if err := a.storage.RemoveItem(guard.TokenKey); err != nil {
		return err
	}
	if err := a.storage.RemoveItem(guard.UserKey); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) cmdWhoami(_ context.Context, d guard.Decision) error {
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(a.out)
	cyan.Fprintln(a.out, "  Admin")
	cyan.Fprintln(a.out, "  -----")
	u, err := d.User()
	if err != nil {
		fmt.Fprintf(a.out, "  User record:  %s\n", d.RawUser)
	} else {
		fmt.Fprintf(a.out, "  Email:        %s\n", u.Email)
		fmt.Fprintf(a.out, "  Name:         %s\n", u.Name)
		fmt.Fprintf(a.out, "  Role:         %s\n", u.Role)
	}
	if a.verify {
		color.New(color.FgGreen).Fprintln(a.out, "  Token:        verified")
	} else {
		fmt.Fprintln(a.out, "  Token:        present (not verified)")
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *app) cmdProductTypes(ctx context.Context, d guard.Decision, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	api := a.api.WithToken(d.Token)

	switch sub {
	case "list":
		fs := a.flagSet("product-types list")
		status := fs.String("status", "", "filter by status (active|inactive)")
		if err := fs.Parse(args); err != nil {
			return errUsage
		}

		items, err := api.ListProductTypes(ctx, *status)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(a.out, "No product types")
			return nil
		}

		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SORT\tNAME\tSLUG\tSTATUS\tID")
		for _, pt := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", pt.SortOrder, pt.Name, pt.Slug, pt.Status, pt.ID)
		}
		return w.Flush()

	case "create":
		fs := a.flagSet("product-types create")
		name := fs.String("name", "", "display name")
		slug := fs.String("slug", "", "unique slug")
		description := fs.String("description", "", "optional description")
		status := fs.String("status", "", "active|inactive (default active)")
		sortOrder := fs.Int("sort", 0, "sort order")
		key := fs.String("key", "", "idempotency key")
		if err := fs.Parse(args); err != nil {
			return errUsage
		}

		req := client.CreateProductTypeRequest{Name: *name, Slug: *slug, Status: *status}
		if *description != "" {
			req.Description = description
		}
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "sort" {
				req.SortOrder = sortOrder
			}
		})

		pt, err := api.CreateProductType(ctx, req, *key)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(a.out, "Created product type %s (%s)\n", pt.Slug, pt.ID)
		return nil

	default:
		return fmt.Errorf("unknown product-types command: %s", sub)
	}
}

func (a *app) cmdUpload(ctx context.Context, d guard.Decision, args []string) error {
	if len(args) == 0 {
		return errors.New("upload needs at least one file")
	}

	imgs, err := a.api.WithToken(d.Token).Upload(ctx, args)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PUBLIC ID\tSIZE\tFORMAT\tURL")
	for _, img := range imgs {
		fmt.Fprintf(w, "%s\t%dx%d\t%s\t%s\n", img.PublicID, img.Width, img.Height, img.Format, img.URL)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(a.out, "Uploaded %d image(s)\n", len(imgs))
	return nil
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
