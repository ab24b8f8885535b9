package cmd

// Options holds the shared command-line options for the cleanowners CLI.
type Options struct {
	Verbosity int

	// Sweep options
	Org         string
	Repos       []string
	Exempt      []string
	DryRun      bool
	IssueReport bool
	Workers     int

	// Report options
	Repo        string
	RefDate     string // YYYY-MM-DD, defaults to today
	SponsorInfo bool
	Assignees   []string
	Title       string
	Output      string
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		SponsorInfo: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithOrg sets the organization to sweep.
func WithOrg(org string) Option {
	return func(o *Options) {
		o.Org = org
	}
}

// WithRepos sets an explicit repository list (owner/name).
func WithRepos(repos []string) Option {
	return func(o *Options) {
		o.Repos = repos
	}
}

// WithDryRun enables dry-run mode.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithRepo sets the repository the contributor report covers.
func WithRepo(repo string) Option {
	return func(o *Options) {
		o.Repo = repo
	}
}

// WithRefDate sets the reference date (YYYY-MM-DD) for the report range.
func WithRefDate(refDate string) Option {
	return func(o *Options) {
		o.RefDate = refDate
	}
}

// WithAssignees sets the issue assignees.
func WithAssignees(assignees []string) Option {
	return func(o *Options) {
		o.Assignees = assignees
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}
