package templates

import (
	"context"

	"github.com/a-h/templ"
)

// HeaderData feeds the navigation bar on every full page.
type HeaderData struct {
	OpenOrders      int
	AwaitingOrders  int
	ConfirmedOrders int
}

const toastScript = `<script>
document.body.addEventListener("showToast", function (evt) {
  showToast(evt.detail.message, evt.detail.type);
});
function showToast(message, type) {
  var box = document.getElementById("toast-container");
  if (!box) return;
  var el = document.createElement("div");
  el.className = "toast toast-" + (type || "info");
  el.textContent = message;
  box.appendChild(el);
  setTimeout(function () { el.remove(); }, 4000);
}
(function () {
  var m = document.cookie.match(/(?:^|; )flash_toast=([^;]*)/);
  if (!m) return;
  document.cookie = "flash_toast=; Max-Age=0; Path=/";
  try {
    var t = JSON.parse(decodeURIComponent(m[1].replace(/\+/g, " ")));
    showToast(t.message, t.type);
  } catch (e) {}
})();
</script>`

// Page is the full HTML document around a content component.
func Page(title string, header HeaderData, content templ.Component) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(title)
		hw.raw(` - Order Tracker</title>`)
		hw.raw(`<link rel="stylesheet" href="/static/app.css">`)
		hw.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		hw.raw(`</head><body>`)

		hw.raw(`<nav class="topbar"><a href="/orders" class="brand">Order Tracker</a>`)
		hw.raw(`<a href="/orders/new">New order</a>`)
		hw.raw(`<a href="/orders/arithmetic">Order arithmetic</a>`)
		hw.raw(`<span class="counts">`)
		hw.rawf(`<span class="status-open">%d open</span>`, header.OpenOrders)
		hw.rawf(`<span class="status-ready">%d awaiting</span>`, header.AwaitingOrders)
		hw.rawf(`<span class="status-confirmed">%d confirmed</span>`, header.ConfirmedOrders)
		hw.raw(`</span></nav>`)

		hw.raw(`<main id="main-content">`)
		hw.render(ctx, content)
		hw.raw(`</main><div id="toast-container"></div>`)
		hw.raw(toastScript)
		hw.raw(`</body></html>`)
	})
}
