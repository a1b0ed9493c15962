package main

const usageText = `abgraph drives ab against one or more URLs, or against one URL across
git branches of a codebase, and renders the per-request response times
as a comparison chart via gnuplot.

All options take the form --name=value. Any option omitted from the
command line is asked for interactively.

Common options:
  --cycles=N          number of measured request cycles
  --output=PATH       destination PNG path
  --overwrite=y|n     overwrite an existing output file without asking
  --size=WxH          image dimensions in pixels (default 640x480)
  --kind=branch|url   what to compare

Branch mode (--kind=branch):
  --dir=PATH          git repository root
  --url=URL           shared target URL
  --composer=y|n      run composer install after each branch switch
  --branch1=NAME      first branch; --branch2=..., contiguous, 1-based

URL mode (--kind=url):
  --url1=URL          first URL; --url2=..., contiguous, 1-based

  -h, --help, /?      show this text and exit

External commands used: ab, gnuplot, and in branch mode git (plus
composer when dependency reinstallation is requested).`

func isHelpToken(arg string) bool {
	switch arg {
	case "-h", "--help", "/?":
		return true
	}
	return false
}
