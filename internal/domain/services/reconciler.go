package services

import (
	"context"
	"fmt"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	"github.com/athebyme/shopify-color-relay/internal/metrics"
	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
	pkgmodels "github.com/athebyme/shopify-color-relay/pkg/models"
)

// Стратегии согласования вариантов; в развертывании активна одна
const (
	StrategyInPlace  = "in_place"
	StrategyRecreate = "recreate"
	StrategyNone     = "none"
)

// VariantReconciler переписывает вариант, чей цвет изменился при нормализации,
// и удаляет другие варианты с тем же исходным значением
type VariantReconciler interface {
	Reconcile(ctx context.Context, product *pkgmodels.Product, src models.ColorSource, color models.CanonicalColor) (*models.ReconcileReport, error)
}

// NewVariantReconciler создает реконсилер выбранной стратегии
func NewVariantReconciler(strategy string, commerce interfaces.CommercePort, policy CallPolicy, logger interfaces.LoggerPort) (VariantReconciler, error) {
	base := reconcilerBase{commerce: commerce, policy: policy, logger: logger}
	switch strategy {
	case StrategyInPlace, "":
		return &inPlaceReconciler{base}, nil
	case StrategyRecreate:
		return &recreateReconciler{base}, nil
	case StrategyNone:
		return noopReconciler{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", utils.ErrUnknownReconcileStrategy, strategy)
	}
}

// NeedsReconcile цвет пришел из опции варианта и нормализация изменила значение
func NeedsReconcile(src models.ColorSource, color models.CanonicalColor) bool {
	return src.Kind == models.SourceOption &&
		src.Variant != nil &&
		src.Variant.ID != 0 &&
		color != models.Other &&
		src.Token != color.String()
}

type noopReconciler struct{}

func (noopReconciler) Reconcile(context.Context, *pkgmodels.Product, models.ColorSource, models.CanonicalColor) (*models.ReconcileReport, error) {
	return nil, nil
}

type reconcilerBase struct {
	commerce interfaces.CommercePort
	policy   CallPolicy
	logger   interfaces.LoggerPort
}

// deleteDuplicates удаляет варианты, у которых в слоте цвета осталось исходное значение
func (r reconcilerBase) deleteDuplicates(ctx context.Context, strategy string, productID int64, position int, raw string, keep ...int64) ([]int64, error) {
	listed := Call(ctx, r.policy, DependencyShopify, "list_variants", func(ctx context.Context) ([]pkgmodels.Variant, error) {
		return r.commerce.ListVariants(ctx, productID)
	})
	if !listed.OK() {
		return nil, fmt.Errorf("failed to list variants: %w", listed.Err)
	}

	var deleted []int64
	for _, v := range listed.Value {
		if pkgmodels.HasVariant(keep, v.ID) || v.OptionValue(position) != raw {
			continue
		}
		id := v.ID
		out := CallErr(ctx, r.policy, DependencyShopify, "delete_variant", func(ctx context.Context) error {
			return r.commerce.DeleteVariant(ctx, productID, id)
		})
		if !out.OK() {
			r.logger.ErrorWithContext(ctx, "Ошибка удаления дубликата варианта",
				interfaces.LogField{Key: "variant_id", Value: id},
				interfaces.LogField{Key: "error", Value: out.Err.Error()},
			)
			continue
		}
		metrics.VariantReconciliations.WithLabelValues(strategy, "delete_duplicate").Inc()
		deleted = append(deleted, id)
	}
	return deleted, nil
}

// inPlaceReconciler переписывает слот опции у существующего варианта
type inPlaceReconciler struct {
	reconcilerBase
}

func (r *inPlaceReconciler) Reconcile(ctx context.Context, product *pkgmodels.Product, src models.ColorSource, color models.CanonicalColor) (*models.ReconcileReport, error) {
	if !NeedsReconcile(src, color) {
		return nil, nil
	}
	variantID := src.Variant.ID

	out := CallErr(ctx, r.policy, DependencyShopify, "update_variant", func(ctx context.Context) error {
		return r.commerce.UpdateVariantOption(ctx, variantID, src.OptionPosition, color.String())
	})
	if !out.OK() {
		return nil, fmt.Errorf("failed to update variant %d: %w", variantID, out.Err)
	}
	metrics.VariantReconciliations.WithLabelValues(StrategyInPlace, "update").Inc()

	report := &models.ReconcileReport{Strategy: StrategyInPlace, UpdatedVariantID: variantID}
	deleted, err := r.deleteDuplicates(ctx, StrategyInPlace, product.ID, src.OptionPosition, src.Token, variantID)
	report.DeletedVariants = deleted
	return report, err
}

// recreateReconciler создает новый вариант с базовым цветом и удаляет исходный
type recreateReconciler struct {
	reconcilerBase
}

func (r *recreateReconciler) Reconcile(ctx context.Context, product *pkgmodels.Product, src models.ColorSource, color models.CanonicalColor) (*models.ReconcileReport, error) {
	if !NeedsReconcile(src, color) {
		return nil, nil
	}
	original := *src.Variant

	replacement := original
	replacement.ID = 0
	replacement.ProductID = 0
	replacement.Title = ""
	replacement.SetOptionValue(src.OptionPosition, color.String())

	created := Call(ctx, r.policy, DependencyShopify, "create_variant", func(ctx context.Context) (*pkgmodels.Variant, error) {
		return r.commerce.CreateVariant(ctx, product.ID, replacement)
	})
	if !created.OK() {
		return nil, fmt.Errorf("failed to create variant: %w", created.Err)
	}
	metrics.VariantReconciliations.WithLabelValues(StrategyRecreate, "create").Inc()

	report := &models.ReconcileReport{Strategy: StrategyRecreate, CreatedVariantID: created.Value.ID}

	removed := CallErr(ctx, r.policy, DependencyShopify, "delete_variant", func(ctx context.Context) error {
		return r.commerce.DeleteVariant(ctx, product.ID, original.ID)
	})
	if !removed.OK() {
		return report, fmt.Errorf("failed to delete original variant %d: %w", original.ID, removed.Err)
	}
	metrics.VariantReconciliations.WithLabelValues(StrategyRecreate, "delete_original").Inc()
	report.DeletedVariants = append(report.DeletedVariants, original.ID)

	deleted, err := r.deleteDuplicates(ctx, StrategyRecreate, product.ID, src.OptionPosition, src.Token, created.Value.ID)
	report.DeletedVariants = append(report.DeletedVariants, deleted...)
	if err != nil {
		return report, err
	}

	return report, r.syncOptionValues(ctx, product, src.OptionPosition)
}

// syncOptionValues приводит список значений опции цвета к значениям оставшихся вариантов
func (r *recreateReconciler) syncOptionValues(ctx context.Context, product *pkgmodels.Product, position int) error {
	listed := Call(ctx, r.policy, DependencyShopify, "list_variants", func(ctx context.Context) ([]pkgmodels.Variant, error) {
		return r.commerce.ListVariants(ctx, product.ID)
	})
	if !listed.OK() {
		return fmt.Errorf("failed to list variants: %w", listed.Err)
	}

	var values []string
	seen := make(map[string]struct{})
	for _, v := range listed.Value {
		value := v.OptionValue(position)
		if _, ok := seen[value]; ok || value == "" {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	options := make([]pkgmodels.Option, len(product.Options))
	copy(options, product.Options)
	for i := range options {
		if options[i].Position == position || (options[i].Position == 0 && i+1 == position) {
			options[i].Values = values
		}
	}

	out := CallErr(ctx, r.policy, DependencyShopify, "update_product", func(ctx context.Context) error {
		return r.commerce.UpdateProduct(ctx, pkgmodels.ProductUpdate{ID: product.ID, Options: options})
	})
	if !out.OK() {
		return fmt.Errorf("failed to update product options: %w", out.Err)
	}
	metrics.VariantReconciliations.WithLabelValues(StrategyRecreate, "sync_options").Inc()
	return nil
}
