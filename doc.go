// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package vibe implements a scanner for the VIBE configuration language.
//
// VIBE is a small, whitespace-delimited language for hierarchical
// configuration. A document is a sequence of members, one per line, each a
// key followed by a value. A value is a scalar, an array of scalars in square
// brackets, or a nested group of members in curly braces:
//
//	# comment
//	name    "my service"
//	port    8080
//	debug   false
//	hosts   [alpha beta gamma]
//	server {
//	  ssl {
//	    cert /etc/ssl/server.pem
//	  }
//	}
//
// The types of scalars are inferred from their text: true and false are
// Booleans, text of the form -?digits(.digits)? is a number, and everything
// else is a string. Strings that are not plain names may be written without
// quotes, as in the path above.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for VIBE. Construct a scanner
// from a string and call its Next method to iterate over the input. Next
// advances to the next input token and returns nil, or reports an error:
//
//	s := vibe.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// has concrete type *vibe.SyntaxError, and describes a lexical error in the
// input.
//
//	if err := s.Err(); err != io.EOF {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// # Parsing
//
// Package [github.com/creachadair/vibe/ast] builds syntax trees from VIBE
// source, and package [github.com/creachadair/vibe/ast/cursor] resolves
// dotted paths like "server.ssl.cert" within them.
package vibe
