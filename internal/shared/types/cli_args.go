package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile string
	Profile    string
	Region     string
	Format     string
	Period     string
	AccountID  string
	OUID       string
	ByOU       bool
	NoColor    bool
	ReportName string
	ReportType []string
	Dir        string
}
