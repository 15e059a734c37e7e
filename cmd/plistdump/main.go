// Command plistdump parses an XML property list and prints it back in
// canonical form, or summarizes its contents with -stats.
//
// The exit status is 0 when the file parses, 1 on a parse failure or an
// unsupported plist kind, and 2 on usage errors.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/arielelkin/xcbuild/plist"
	"github.com/arielelkin/xcbuild/plist/xmlplist"
	"github.com/samber/lo"
)

var stats = flag.Bool("stats", false, "print per-type object counts instead of the canonical plist")

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: plistdump [-stats] file.plist")
		os.Exit(2)
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "plistdump: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	kind, r, err := plist.DetectKind(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "plistdump: %s: %v\n", path, err)
		os.Exit(1)
	}
	if kind != plist.XML {
		fmt.Fprintf(os.Stderr, "plistdump: %s: %s plists are not supported\n", path, kind)
		os.Exit(1)
	}

	failed := false
	root := xmlplist.NewParser().Parse(r, func(format string, args ...interface{}) {
		failed = true
		fmt.Fprintf(os.Stderr, "plistdump: %s: %s\n", path, fmt.Sprintf(format, args...))
	})
	if root == nil {
		// A nil root without errors is an empty plist.
		os.Exit(lo.Ternary(failed, 1, 0))
	}

	if *stats {
		printStats(root)
		return
	}

	if err := xmlplist.NewEncoder(os.Stdout).Encode(root); err != nil {
		fmt.Fprintf(os.Stderr, "plistdump: %v\n", err)
		os.Exit(1)
	}
}

// printStats walks the tree and prints how many objects of each type it
// contains.
func printStats(root plist.Object) {
	var objects []plist.Object
	var walk func(plist.Object)
	walk = func(obj plist.Object) {
		objects = append(objects, obj)
		switch obj := obj.(type) {
		case *plist.Array:
			for i := 0; i < obj.Len(); i++ {
				walk(obj.At(i))
			}
		case *plist.Dictionary:
			for _, key := range obj.Keys() {
				value, _ := obj.Get(key)
				walk(value)
			}
		}
	}
	walk(root)

	counts := lo.CountValuesBy(objects, func(obj plist.Object) string {
		return obj.Type().String()
	})
	names := lo.Keys(counts)
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-10s %d\n", name, counts[name])
	}
	fmt.Printf("%-10s %d\n", "total", len(objects))
}
