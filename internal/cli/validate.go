package cli

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	result, err := ctx.Service.Validate()
	if err != nil {
		return err
	}
	ctx.println(result.FormatReport())
	return nil
}
