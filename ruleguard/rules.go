//go:build ruleguard

// Package gorules holds go-ruleguard rules run by gocritic.
package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// processes flags process launches that escape the executor's timeouts and
// process-group cleanup.
func processes(m dsl.Matcher) {
	m.Import("os/exec")

	m.Match(`exec.Command($*_)`).
		Where(m.File().Imports("os/exec") && !m.File().Name.Matches(`_test\.go$`)).
		Report(`exec.Command has no deadline; use exec.CommandContext through command.Executor`)

	m.Match(`$cmd.CombinedOutput()`, `$cmd.Output()`).
		Where(m["cmd"].Type.Is("*exec.Cmd") && !m.File().Name.Matches(`_test\.go$`)).
		Report(`$cmd blocks without the executor's launch and exec timeouts; use command.Executor`)
}

// home flags ad-hoc home directory lookups; the readme path must be resolved
// through os.UserHomeDir on every read.
func home(m dsl.Matcher) {
	m.Match(`os.Getenv("HOME")`, `os.Getenv("USERPROFILE")`).
		Report(`use os.UserHomeDir instead of reading $$HOME directly`)
}

func smells(m dsl.Matcher) {
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic or reducing algorithmic complexity`)
}
