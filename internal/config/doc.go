// Package config loads the optional generator configuration file.
//
// The file is YAML (butcher.yaml, butcher.yml) or TOML (butcher.toml) and is
// looked up next to the input when no path is given:
//
//	version: "1"
//	prefix: Butchered          # view type prefix
//	output: events_butcher.go  # generated file name
//	build_tag: butcher         # build tag of template files
//	types:
//	  - name: Order
//	    fields:
//	      Items: { strategy: copy }
//	      Label: { strategy: flatten, target: string }
//	      Value: { bounds: ["T: fmt.Stringer"] }
//
// Field entries replace the butcher tag of the named field. Fields of union
// variants are named "Variant.Field".
package config
