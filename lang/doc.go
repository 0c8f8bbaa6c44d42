// Package lang implements the front end of the rasi theme language: a lexer,
// a recursive-descent parser, the syntax tree, and the typed value model.
//
// # Syntax
//
// A stylesheet is an ordered sequence of variable declarations and rules:
//
//	@accent: #268bd2;
//
//	* {
//	  background-color: #000000;
//	  text-color: white;
//	}
//
//	textbox, listview {
//	  padding: 4px 8px;
//	  border-color: @accent;
//	}
//
//	textbox selected { background-color: @accent; }
//	button#ok.hover  { text-color: rgba(255, 255, 255, 80%); }
//	window           { children: [ "inputbar", "listview" ]; }
//	icon             { image: url("logo.png", both); }
//
// Informal EBNF:
//
//	stylesheet    → (variable_decl | rule)* EOF
//	variable_decl → VARIABLE ':' value ';'
//	rule          → selector (',' selector)* '{' (property (';' property)* ';'?)? '}'
//	selector      → '*' state? | IDENT HASH? state? | HASH state?
//	state         → '.' IDENT | IDENT
//	property      → IDENT ':' value
//	value         → primary+
//	primary       → HASH | NUMBER | STRING | VARIABLE | list | call | IDENT
//	list          → '[' (value (',' value)* ','?)? ']'
//	call          → ('rgb' | 'rgba' | 'url') '(' args ')'
//
// A bare identifier following the widget type names a state when it is one
// of the recognized state keywords (see [DefaultStates] and [WithStates]);
// otherwise it names the instance.
//
// # Values
//
// Hash words in value position are hex colors (#RGB, #RGBA, #RRGGBB,
// #RRGGBBAA). Numbers carry an optional unit (px, %, em, mm). Two or four
// distances form a [Rect]. Identifiers are keywords, some of which convert
// to colors, booleans, or orientations on demand.
//
// # Caching
//
// [ParseString] and [ParseReader] cache results keyed by the content and
// the result-affecting options. Cached stylesheets are shared; treat them as
// read-only. [Parse] never caches.
package lang
