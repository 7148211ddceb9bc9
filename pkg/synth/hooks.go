package synth

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/ormasoftchile/synthrun/pkg/schema"
)

// applyHooks appends the commands of every hook attached to stage with
// the given placement ("pre" or "post"). A hook's when condition is
// evaluated against the design metadata; evaluation errors fail the
// stage (they were compile-checked at validation, so a failure here
// means the job was never validated).
func (r *Run) applyHooks(stage, placement string) error {
	for _, hook := range r.Job.Synthesis.Hooks {
		if hook.Stage != stage {
			continue
		}
		p := hook.Placement
		if p == "" {
			p = "pre"
		}
		if p != placement {
			continue
		}
		if hook.When != "" {
			matched, err := evalHookCondition(hook.When, &r.Job.Design)
			if err != nil {
				return fmt.Errorf("hook on %s: %w", stage, err)
			}
			if !matched {
				continue
			}
		}
		for _, cmd := range hook.Commands {
			r.Script.Append(cmd)
		}
	}
	return nil
}

// evalHookCondition evaluates a when expression with expr-lang.
func evalHookCondition(cond string, d *schema.Design) (bool, error) {
	env := schema.HookEnv(d)
	program, err := expr.Compile(cond, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile condition %q: %w", cond, err)
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval condition %q: %w", cond, err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not return bool (got %T)", cond, output)
	}
	return result, nil
}
