// Package theme builds resolved, queryable themes from parsed stylesheets.
//
// A [Tree] answers the question "what is the value of property P for widget
// W, instance I, in state S". Candidate rules are ranked by selector
// specificity (instance 4, state 2, widget type 1, summed) and then by
// declaration order, later first. The universal selector and instance-only
// selectors apply to every widget type. A value of the keyword inherit
// defers to the next candidate.
//
// Variables are substituted while building, so queries never fail and never
// observe an unresolved reference.
package theme
