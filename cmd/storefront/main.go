// Command storefront drives the storefront endpoints from a terminal. Steps
// run in order against one cookie session, e.g.
//
//	storefront add:3:2 coupon:SPRING10 filter:min_price=10&order=price summary
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/micronstore/storefront/internal/storefront/client"
	"github.com/micronstore/storefront/internal/storefront/filter"
	"github.com/micronstore/storefront/internal/storefront/price"
	"github.com/micronstore/storefront/internal/storefront/totals"
	"github.com/micronstore/storefront/pkg/config"
	"github.com/micronstore/storefront/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-cli"})
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		logg.Error(context.Background(), "failed to load client config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "storefront-cli",
		Level:       logger.ParseLevel(cfg.LogLevel),
	})

	baseURL := flag.String("url", cfg.BaseURL, "storefront base url")
	lang := flag.String("lang", cfg.Language, "language prefix")
	token := flag.String("token", os.Getenv("MICRON_STOREFRONT_TOKEN"), "customer bearer token for favorites")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: storefront [flags] step...")
		fmt.Fprintln(os.Stderr, "steps: add:<id>[:qty] update:<id>:<qty> remove:<id> clear coupon:<code> uncoupon favorite:<id> filter[:<query>] rate range summary")
		os.Exit(2)
	}

	c, err := client.New(*baseURL,
		client.WithLanguage(*lang),
		client.WithBearerToken(*token),
		client.WithLogger(logg),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create client", err)
		os.Exit(1)
	}

	r := &runner{
		client: c,
		out:    os.Stdout,
		locale: price.NewLocale(*lang, cfg.UAHRate),
	}
	ctx := logg.WithFields(context.Background(), map[string]any{"url": *baseURL, "lang": *lang})
	if err := r.run(ctx, flag.Args()); err != nil {
		logg.Error(ctx, "storefront step failed", err)
		os.Exit(1)
	}
}

type runner struct {
	client *client.Client
	out    io.Writer
	locale price.Locale
	last   totals.Payload
}

func (r *runner) run(ctx context.Context, steps []string) error {
	if err := r.client.Bootstrap(ctx); err != nil {
		return err
	}
	if !r.locale.HasRate() {
		if rate, err := r.client.CurrencyRate(ctx); err == nil && rate.Rate.Present() {
			r.locale = price.NewLocale(rate.Language, rate.Rate.String())
		}
	}
	for _, step := range steps {
		if err := r.step(ctx, step); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
	}
	return nil
}

func (r *runner) step(ctx context.Context, step string) error {
	name, arg, _ := strings.Cut(step, ":")
	f := price.NewFormatter(r.locale)

	switch name {
	case "add", "update":
		idRaw, qtyRaw, _ := strings.Cut(arg, ":")
		id, err := parseID(idRaw)
		if err != nil {
			return err
		}
		qty := 1
		if qtyRaw != "" {
			if qty, err = strconv.Atoi(qtyRaw); err != nil {
				return fmt.Errorf("invalid quantity %q", qtyRaw)
			}
		}
		var res client.CartResult
		if name == "add" {
			res, err = r.client.AddToCart(ctx, id, qty, false)
		} else {
			res, err = r.client.UpdateCart(ctx, id, qty)
		}
		return r.cart(res, err)

	case "remove":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		return r.cart(r.client.RemoveFromCart(ctx, id))

	case "clear":
		return r.cart(r.client.ClearCart(ctx))

	case "coupon", "uncoupon":
		var (
			res client.CouponResult
			err error
		)
		if name == "coupon" {
			res, err = r.client.ApplyCoupon(ctx, arg)
		} else {
			res, err = r.client.RemoveCoupon(ctx)
		}
		if err != nil {
			return err
		}
		r.message(res.Response)
		if res.Success {
			r.last = res.Payload
			if res.Coupon != nil {
				fmt.Fprintf(r.out, "coupon %s (-%d%%)\n", res.Coupon.Code, res.Coupon.Discount)
			}
		}
		return nil

	case "favorite":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		res, err := r.client.AddFavorite(ctx, id)
		if err != nil {
			return err
		}
		r.message(res.Response)
		return nil

	case "filter":
		bounds := filter.DefaultBounds()
		if pr, err := r.client.PriceRange(ctx); err == nil {
			bounds = filter.ParseBounds(pr.MinPrice.String(), pr.MaxPrice.String())
		}
		q := filter.BuildQuery(filter.ParseCriteria(arg, bounds))
		res, err := r.client.FilterProducts(ctx, r.client.Path("/products/"), q)
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}
		fmt.Fprintf(r.out, "GET %s?%s\n%s\n", r.client.Path("/products/"), q.Encode(), res.HTML)
		return nil

	case "rate":
		res, err := r.client.CurrencyRate(ctx)
		if err != nil {
			return err
		}
		if !res.Rate.Present() {
			fmt.Fprintf(r.out, "language %s, no rate\n", res.Language)
			return nil
		}
		fmt.Fprintf(r.out, "language %s, 1 USD = %s UAH\n", res.Language, res.Rate.String())
		return nil

	case "range":
		res, err := r.client.PriceRange(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "prices %s to %s\n", f.Format(res.MinPrice), f.Format(res.MaxPrice))
		return nil

	case "summary":
		s := totals.Project(r.last, f)
		fmt.Fprintf(r.out, "subtotal %s, bonus %s\n", s.Subtotal, s.BonusPoints)
		if s.ShowTotal {
			fmt.Fprintf(r.out, "discount %s, total %s\n", s.Discount, s.Total)
		}
		return nil
	}
	return fmt.Errorf("unknown step %q", name)
}

func (r *runner) cart(res client.CartResult, err error) error {
	if err != nil {
		return err
	}
	r.message(res.Response)
	if res.Success {
		r.last = res.Payload
		fmt.Fprintf(r.out, "cart items: %d\n", res.CartTotal)
	}
	return nil
}

func (r *runner) message(res client.Response) {
	if res.Message == "" {
		return
	}
	fmt.Fprintf(r.out, "[%s] %s\n", res.MessageType, res.Message)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return uint(id), nil
}
