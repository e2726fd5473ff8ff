// Package prompt asks the user short questions on the terminal.
//
// [Confirm] renders a yes/no choice that can be answered with y or n, or
// toggled with tab and accepted with enter. It writes to the writer it is
// given, normally stderr, so stdout stays clean for piping.
package prompt
