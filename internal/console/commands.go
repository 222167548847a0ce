package console

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/go-hbnb/internal/models"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

const (
	msgClassMissing     = "** class name missing **"
	msgClassNotExist    = "** class doesn't exist **"
	msgIDMissing        = "** instance id missing **"
	msgNoInstance       = "** no instance found **"
	msgAttributeMissing = "** attribute name missing **"
	msgValueMissing     = "** value missing **"
	msgInvalidValue     = "** invalid value **"
)

// checkClass validates the class token and prints the matching error.
func (c *Console) checkClass(args []token) (string, bool) {
	if len(args) == 0 {
		c.println(msgClassMissing)
		return "", false
	}
	if !models.IsClass(args[0].text) {
		c.println(msgClassNotExist)
		return "", false
	}
	return args[0].text, true
}

// lookup resolves <Class> <id> to a stored object.
func (c *Console) lookup(ctx context.Context, args []token) (models.Model, bool) {
	class, ok := c.checkClass(args)
	if !ok {
		return nil, false
	}
	if len(args) < 2 {
		c.println(msgIDMissing)
		return nil, false
	}
	obj, err := c.store.Get(ctx, class, args[1].text)
	if err != nil {
		c.println(msgNoInstance)
		return nil, false
	}
	return obj, true
}

func (c *Console) save(ctx context.Context) {
	if err := c.store.Save(ctx); err != nil {
		c.logger.ErrorContext(ctx, "Failed to save storage", slog.Any("error", err))
	}
}

func (c *Console) doQuit(context.Context, string) bool { return true }

func (c *Console) doEOF(context.Context, string) bool {
	c.println()
	return true
}

func (c *Console) doCreate(ctx context.Context, arg string) bool {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		c.println(msgClassMissing)
		return false
	}
	obj, err := models.New(fields[0])
	if err != nil {
		c.println(msgClassNotExist)
		return false
	}
	for _, param := range fields[1:] {
		key, value, ok := parseParam(param)
		if !ok || models.IsProtected(key) {
			c.logger.DebugContext(ctx, "Skipping create parameter", slog.String("param", param))
			continue
		}
		if err := models.SetAttr(obj, key, value); err != nil {
			c.logger.DebugContext(ctx, "Skipping create parameter",
				slog.String("param", param), slog.Any("error", err))
		}
	}
	c.store.New(ctx, obj)
	c.save(ctx)
	c.println(obj.Meta().ID)
	return false
}

func (c *Console) doShow(ctx context.Context, arg string) bool {
	if obj, ok := c.lookup(ctx, splitLine(arg)); ok {
		c.println(models.String(obj))
	}
	return false
}

func (c *Console) doDestroy(ctx context.Context, arg string) bool {
	obj, ok := c.lookup(ctx, splitLine(arg))
	if !ok {
		return false
	}
	c.store.Delete(ctx, obj)
	c.save(ctx)
	return false
}

func (c *Console) doAll(ctx context.Context, arg string) bool {
	class := ""
	if fields := strings.Fields(arg); len(fields) > 0 {
		if !models.IsClass(fields[0]) {
			c.println(msgClassNotExist)
			return false
		}
		class = fields[0]
	}
	objs := models.Sorted(c.store.All(ctx, class))
	items := make([]string, 0, len(objs))
	for _, obj := range objs {
		items = append(items, reprString(models.String(obj)))
	}
	c.println("[" + strings.Join(items, ", ") + "]")
	return false
}

func (c *Console) doCount(ctx context.Context, arg string) bool {
	class, ok := c.checkClass(splitLine(arg))
	if !ok {
		return false
	}
	c.println(c.store.Count(ctx, class))
	return false
}

func (c *Console) doUpdate(ctx context.Context, arg string) bool {
	args := splitLine(arg)
	obj, ok := c.lookup(ctx, args)
	if !ok {
		return false
	}
	class, id := obj.ClassName(), obj.Meta().ID

	if dict, ok := dictLiteral(arg); ok {
		_, err := c.store.Modify(ctx, class, id, func(m models.Model) error {
			return models.SetAttrs(m, dict)
		})
		c.afterUpdate(ctx, err)
		return false
	}

	if len(args) < 3 {
		c.println(msgAttributeMissing)
		return false
	}
	if len(args) < 4 {
		c.println(msgValueMissing)
		return false
	}
	attr := args[2].text
	if strings.HasPrefix(attr, "(") || strings.HasPrefix(attr, "[") || models.IsProtected(attr) {
		return false
	}
	err := c.store.Update(ctx, models.Key(obj), attr, parseValue(args[3]))
	c.afterUpdate(ctx, err)
	return false
}

func (c *Console) afterUpdate(ctx context.Context, err error) {
	switch {
	case err == nil:
		c.save(ctx)
	case errors.Is(err, storage.ErrNotFound):
		c.println(msgNoInstance)
	case errors.Is(err, models.ErrInvalidValue):
		c.println(msgInvalidValue)
	default:
		c.logger.ErrorContext(ctx, "Failed to update instance", slog.Any("error", err))
	}
}
