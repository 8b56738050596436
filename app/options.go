package app

import (
	"strings"

	"github.com/jessevdk/go-flags"
)

// DefaultRegion is used when --region is not given
const DefaultRegion = "eu-west-2"

// Options are the command line arguments of the restart tool
type Options struct {
	Instance   string `short:"i" long:"instance" description:"the ID of the EC2 instance to restart (prompted for when omitted)"`
	Region     string `short:"r" long:"region" default:"eu-west-2" description:"the AWS region of the instance"`
	StrictExit bool   `long:"strict-exit" description:"exit with a non-zero status when the restart sequence fails"`
	LogLevel   string `long:"log-level" default:"warn" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"diagnostic log level, written to stderr"`

	Args struct {
		Profile string `positional-arg-name:"profile" description:"the AWS profile to use for the connection (prompted for when omitted)"`
	} `positional-args:"yes"`
}

// ParseOptions parses the command line. Help and usage errors are printed by
// the parser and returned as *flags.Error.
func ParseOptions(args []string) (*Options, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Stop and start an AWS EC2 instance."
	parser.Usage = "[OPTIONS] [profile]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, &flags.Error{
			Type:    flags.ErrUnknown,
			Message: "unexpected arguments: " + strings.Join(rest, " "),
		}
	}
	return &opts, nil
}

// IsHelp reports whether err is the parser asking to show usage
func IsHelp(err error) bool {
	flagsErr, ok := err.(*flags.Error)
	return ok && flagsErr.Type == flags.ErrHelp
}
