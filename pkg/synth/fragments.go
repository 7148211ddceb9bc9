package synth

import (
	"fmt"
	"strings"

	"github.com/ormasoftchile/synthrun/pkg/schema"
)

// Names of the side files staged into the run directory before invocation.
const (
	clockConstraintsFragment  = "clock_constraints_fragment.tcl"
	routingDirectionsFragment = "preferred_routing_directions.tcl"
	findRegsFragment          = "find_regs.tcl"
	childModulesFragment      = "child_modules.tcl"
)

// clockConstraintsTCL derives create_clock constraints from the design's
// clock list.
func clockConstraintsTCL(d *schema.Design) string {
	var out []string
	for _, clk := range d.Clocks {
		out = append(out, fmt.Sprintf("create_clock -name %s -period %g [get_ports %s]",
			clk.Name, clk.PeriodNS, clk.PortName()))
		if clk.UncertaintyNS > 0 {
			out = append(out, fmt.Sprintf("set_clock_uncertainty %g [get_clocks %s]",
				clk.UncertaintyNS, clk.Name))
		}
	}
	out = append(out, "")
	return strings.Join(out, "\n")
}

// routingDirectionsTCL suppresses PSYN-882 while the layer routing is
// being built. Per-layer directions come from the technology and are
// appended by the reference methodology, not here.
func routingDirectionsTCL() string {
	return strings.Join([]string{
		"set suppress_errors  [concat $suppress_errors  [list PSYN-882]]",
		"set suppress_errors  [lminus $suppress_errors  [list PSYN-882]]",
		"",
	}, "\n")
}

// childModulesTCL enumerates separately synthesized sub-blocks so the
// register dump can descend into them.
func childModulesTCL(subBlocks []string) string {
	return fmt.Sprintf("set child_modules [list %s]\n", strings.Join(subBlocks, " "))
}

// findRegsTCL dumps the sequential cells and register paths of the
// current design as JSON for post-run processing.
const findRegsTCL = `proc json_string_list {items} {
  set quoted {}
  foreach item $items { lappend quoted "\"$item\"" }
  return "\[[join $quoted ", "]\]"
}

set reg_cells {}
set reg_paths {}
foreach_in_collection reg [all_registers] {
  set path [get_object_name $reg]
  lappend reg_paths $path
  lappend reg_cells "$path/[get_attribute $reg ref_name]"
}

set cells_f [open "find_regs_cells.json" w]
puts $cells_f [json_string_list $reg_cells]
close $cells_f

set paths_f [open "find_regs_paths.json" w]
puts $paths_f [json_string_list $reg_paths]
close $paths_f
`

// congestionMapBlock is the vendor fragment in rm_dc_scripts/dc.tcl that
// opens a GUI session to render the congestion map. The DISPLAY condition
// inside it is rewritten to false when the feature is disabled.
const congestionMapBlock = `
  # Use the following to generate and write out a congestion map from batch mode
  # This requires a GUI session to be temporarily opened and closed so a valid DISPLAY
  # must be set in your UNIX environment.

  if {[info exists env(DISPLAY)]} {
    gui_start
`

// congestionMapCondition is the token rewritten inside congestionMapBlock.
const congestionMapCondition = `[info exists env(DISPLAY)]`
