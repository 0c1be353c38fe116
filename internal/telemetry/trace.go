package telemetry

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"time"

	"botwatch/config"
	"botwatch/internal/core"

	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Trace 包裝 tracer；未啟用時為 noop，呼叫端不需判斷
type Trace struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

func NewTrace(conf *config.Configuration) (*Trace, func(), error) {
	if conf == nil || !conf.Telemetry.Trace.Enabled {
		return newTrace(nil, ""), func() {}, nil
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpointURL(conf.Telemetry.Trace.EndpointUrl),
		otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
			Enabled:         true,
			InitialInterval: 5 * time.Second,
			MaxInterval:     10 * time.Second,
			MaxElapsedTime:  60 * time.Second, // 超過則丟棄
		}),
		otlptracehttp.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(conf.App.Name),
			semconv.ServiceVersion(conf.App.Version),
		)),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(newPropagator(conf.Telemetry.Trace.CloudTrace))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}
	return newTrace(provider, conf.App.Name), cleanup, nil
}

func newTrace(provider *sdktrace.TracerProvider, name string) *Trace {
	if provider == nil {
		return &Trace{tracer: noop.NewTracerProvider().Tracer("noop")}
	}
	return &Trace{provider: provider, tracer: provider.Tracer(name)}
}

func newPropagator(cloudTrace bool) propagation.TextMapPropagator {
	propagators := []propagation.TextMapPropagator{
		propagation.TraceContext{},
		propagation.Baggage{},
	}
	// GCP Load Balancer 只帶 X-Cloud-Trace-Context，單向讀取
	if cloudTrace {
		propagators = append(propagators, gcppropagator.CloudTraceOneWayPropagator{})
	}
	return propagation.NewCompositeTextMapPropagator(propagators...)
}

func (t *Trace) StartSpanForLayer(
	ctx context.Context,
	spanName core.TraceSpanName,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, string(spanName), opts...)
}

// StartServerSpan 由請求標頭接續上游 trace，並把新的 ctx 放回 gin 與 request
func (t *Trace) StartServerSpan(c *gin.Context) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
	ctx, span := t.StartSpanForLayer(ctx,
		core.TraceSpanName(c.Request.Method+" "+c.Request.URL.Path),
		trace.WithSpanKind(trace.SpanKindServer),
	)
	c.Request = c.Request.WithContext(ctx)
	c.Set(core.ContextTraceKey, ctx)
	return ctx, span
}

// GetTraceContext 取得目前請求最新的 trace ctx
func (t *Trace) GetTraceContext(c *gin.Context) context.Context {
	if v, ok := c.Get(core.ContextTraceKey); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return c.Request.Context()
}

// WithSpan 接受 *gin.Context（handler）或 context.Context（service / repository）；
// 未指定名稱時以呼叫者的 Type.Method 命名
func (t *Trace) WithSpan(parent any, name ...string) (context.Context, trace.Span, func(error)) {
	var (
		ctx      context.Context
		spanName string
	)
	switch p := parent.(type) {
	case *gin.Context:
		ctx = t.GetTraceContext(p)
		spanName = shortFuncName(p.HandlerName())
	case context.Context:
		ctx = p
		spanName = callerName(2)
	default:
		ctx = context.Background()
	}
	if len(name) > 0 && strings.TrimSpace(name[0]) != "" {
		spanName = name[0]
	}
	if spanName == "" {
		spanName = "unknown"
	}

	ctx, span := t.StartSpanForLayer(ctx, core.TraceSpanName(spanName))
	if c, ok := parent.(*gin.Context); ok {
		c.Set(core.ContextTraceKey, ctx)
	}
	return ctx, span, func(err error) { endSpan(span, err) }
}

// EndSpan 結束 span，err 不為 nil 時標記為錯誤
func (t *Trace) EndSpan(span trace.Span, err error) {
	endSpan(span, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ApplyTraceAttributes 依 `trace:"..."` tag 將 struct 欄位寫成 span attribute
func (t *Trace) ApplyTraceAttributes(span trace.Span, obj any) {
	if span == nil || obj == nil || !span.IsRecording() {
		return
	}
	span.SetAttributes(traceAttributes(reflect.ValueOf(obj))...)
}

func traceAttributes(val reflect.Value) []attribute.KeyValue {
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	var attrs []attribute.KeyValue
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := val.Field(i)
		tag := field.Tag.Get("trace")
		if tag == "" {
			// 巢狀 struct 沒有 tag 時攤平
			if fv.Kind() == reflect.Struct || fv.Kind() == reflect.Ptr {
				attrs = append(attrs, traceAttributes(fv)...)
			}
			continue
		}
		if fv.Kind() == reflect.Map {
			attrs = append(attrs, mapAttributes(tag, fv)...)
			continue
		}
		if kv, ok := toAttribute(tag, fv); ok {
			attrs = append(attrs, kv)
		}
	}
	return attrs
}

func mapAttributes(prefix string, m reflect.Value) []attribute.KeyValue {
	if m.Type().Key().Kind() != reflect.String {
		return nil
	}
	keys := m.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	attrs := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		if kv, ok := toAttribute(prefix+"."+k.String(), m.MapIndex(k)); ok {
			attrs = append(attrs, kv)
		}
	}
	return attrs
}

func toAttribute(key string, v reflect.Value) (attribute.KeyValue, bool) {
	switch v.Kind() {
	case reflect.String:
		return attribute.String(key, v.String()), true
	case reflect.Bool:
		return attribute.Bool(key, v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return attribute.Int64(key, v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return attribute.Int64(key, int64(v.Uint())), true
	case reflect.Float32, reflect.Float64:
		return attribute.Float64(key, v.Float()), true
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() != reflect.String {
			return attribute.KeyValue{}, false
		}
		strs := make([]string, v.Len())
		for i := range strs {
			strs[i] = v.Index(i).String()
		}
		return attribute.StringSlice(key, strs), true
	}
	return attribute.KeyValue{}, false
}

// callerName 回傳呼叫 WithSpan 的函式名稱
func callerName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	return shortFuncName(fn.Name())
}

// shortFuncName botwatch/internal/service.(*DetectionService).Record-fm → DetectionService.Record
func shortFuncName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.Index(full, ".func"); i >= 0 {
		full = full[:i]
	}
	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}
	return strings.NewReplacer("(*", "", "(", "", ")", "").Replace(full)
}
