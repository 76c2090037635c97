package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/randalmurphal/alytica/pkg/alytica"
)

// propertyFlag collects repeated -prop key=value flags. Values that parse as
// JSON keep their type; anything else is a string.
type propertyFlag struct {
	props alytica.Properties
}

func (p *propertyFlag) String() string {
	if p == nil || len(p.props) == 0 {
		return ""
	}
	b, _ := json.Marshal(p.props)
	return string(b)
}

func (p *propertyFlag) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return fmt.Errorf("property %q must be key=value", raw)
	}
	if p.props == nil {
		p.props = alytica.Properties{}
	}
	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err == nil {
		p.props[key] = decoded
	} else {
		p.props[key] = value
	}
	return nil
}

func lookupString(fs *flag.FlagSet, name string) string {
	if f := fs.Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}

func lookupProps(fs *flag.FlagSet) alytica.Properties {
	if f := fs.Lookup("prop"); f != nil {
		if pf, ok := f.Value.(*propertyFlag); ok {
			return pf.props
		}
	}
	return nil
}

func newTrackCommand() command {
	return command{
		name:        "track",
		description: "Send a track event",
		configure: func(fs *flag.FlagSet) {
			fs.String("name", "", "Event name")
			fs.String("distinct-id", "", "Distinct id for the session")
			fs.Var(&propertyFlag{}, "prop", "Event property key=value (repeatable)")
		},
		run: func(ctx context.Context, fs *flag.FlagSet, client *alytica.Client, stdout io.Writer) error {
			name := lookupString(fs, "name")
			if name == "" {
				return errors.New("track requires -name")
			}
			if id := lookupString(fs, "distinct-id"); id != "" {
				client.SetDistinctID(id)
			}
			if err := client.Track(ctx, name, lookupProps(fs)); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "tracked %s\n", name)
			return nil
		},
	}
}

func newIdentifyCommand() command {
	return command{
		name:        "identify",
		description: "Send an identify event",
		configure: func(fs *flag.FlagSet) {
			fs.String("user-id", "", "User id")
			fs.Var(&propertyFlag{}, "prop", "User property key=value (repeatable)")
		},
		run: func(ctx context.Context, fs *flag.FlagSet, client *alytica.Client, stdout io.Writer) error {
			userID := lookupString(fs, "user-id")
			if userID == "" {
				return errors.New("identify requires -user-id")
			}
			err := client.Identify(ctx, alytica.IdentifyPayload{
				UserID:     userID,
				Properties: lookupProps(fs),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "identified %s\n", userID)
			return nil
		},
	}
}

func newAliasCommand() command {
	return command{
		name:        "alias",
		description: "Link a distinct id to an alias",
		configure: func(fs *flag.FlagSet) {
			fs.String("distinct-id", "", "Existing distinct id")
			fs.String("alias", "", "Alias to link")
		},
		run: func(ctx context.Context, fs *flag.FlagSet, client *alytica.Client, stdout io.Writer) error {
			p := alytica.AliasPayload{
				DistinctID: lookupString(fs, "distinct-id"),
				Alias:      lookupString(fs, "alias"),
			}
			if err := client.Alias(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "aliased %s -> %s\n", p.DistinctID, p.Alias)
			return nil
		},
	}
}
