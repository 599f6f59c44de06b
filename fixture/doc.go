// Package fixture compiles SPF test-suite documents into Sections.
//
// A suite is a stream of documents in the OpenSPF test-suite layout:
//
//	description: basic tests
//	tests:
//	  helo-basic:
//	    helo: mail.example.com
//	    host: 192.0.2.1
//	    mailfrom: a@example.com
//	    result: pass
//	zonedata:
//	  example.com:
//	    - A: 192.0.2.1
//	    - TXT: v=spf1 a -all
//
// The decoder consumes parse events one at a time with no lookahead. Each
// step of the grammar states the events it accepts, and any other event
// is a fatal *Error naming the expected and actual kinds. Content that is
// well-formed but not understood (unknown test fields, unsupported record
// types, names that do not fit in DNS) is logged and skipped without
// losing the position in the stream.
//
// Basic Usage:
//
//	src := event.NewYAMLSource(f)
//	sections, err := fixture.Compile(src, fixture.Options{Logger: logger})
//	if err != nil {
//	    // The suite is malformed; nothing was compiled.
//	}
//	for _, s := range sections {
//	    for _, t := range s.Tests {
//	        // Evaluate t against s.Zone.
//	    }
//	}
package fixture
