package handler

// indexHTML is the embedded wallet dashboard. It renders the wallet API
// endpoints, polls the health endpoint periodically, and offers a visibility
// toggle that masks every numeric value.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Wallet Dashboard</title>
<style>
  :root { --bg:#0f1419; --card:#1a2027; --text:#e6e8ea; --dim:#8a919a; --accent:#f0b90b; --ok:#16c784; --bad:#ea3943; }
  * { box-sizing: border-box; margin: 0; }
  body { background: var(--bg); color: var(--text); font-family: -apple-system, "Segoe UI", Roboto, sans-serif; padding: 24px; }
  header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 24px; }
  h1 { font-size: 20px; }
  .status { font-size: 13px; color: var(--dim); }
  .status .dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; background: var(--dim); margin-right: 6px; }
  .status.ok .dot { background: var(--ok); }
  .status.bad .dot { background: var(--bad); }
  button { background: var(--card); color: var(--text); border: 1px solid #2c333b; border-radius: 6px; padding: 8px 14px; cursor: pointer; }
  .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 16px; margin-bottom: 24px; }
  .card { background: var(--card); border-radius: 10px; padding: 18px; }
  .card .label { font-size: 12px; color: var(--dim); text-transform: uppercase; margin-bottom: 8px; }
  .card .value { font-size: 24px; font-weight: 600; }
  .card .sub { font-size: 13px; color: var(--dim); margin-top: 4px; }
  section { background: var(--card); border-radius: 10px; padding: 18px; margin-bottom: 24px; }
  section h2 { font-size: 14px; color: var(--dim); text-transform: uppercase; margin-bottom: 12px; }
  table { width: 100%; border-collapse: collapse; font-size: 14px; }
  th, td { text-align: right; padding: 8px 10px; border-bottom: 1px solid #232a32; }
  th:first-child, td:first-child { text-align: left; }
  th { color: var(--dim); font-weight: 500; font-size: 12px; text-transform: uppercase; }
  .error { color: var(--bad); font-size: 14px; }
  .flags span { margin-right: 14px; font-size: 13px; color: var(--dim); }
  .flags b { color: var(--text); }
</style>
</head>
<body>
<header>
  <h1>Wallet Dashboard</h1>
  <div>
    <span id="health" class="status"><span class="dot"></span>checking…</span>
    <button id="toggle">Hide balances</button>
  </div>
</header>

<div class="cards">
  <div class="card"><div class="label">Total value</div><div class="value" id="total">–</div><div class="sub" id="btc"></div></div>
  <div class="card"><div class="label">Available</div><div class="value" id="available">–</div></div>
  <div class="card"><div class="label">In orders</div><div class="value" id="inOrders">–</div></div>
  <div class="card"><div class="label">Open orders</div><div class="value" id="orderCount">–</div></div>
</div>

<section>
  <h2>Assets</h2>
  <div id="balanceError" class="error"></div>
  <table>
    <thead><tr><th>Asset</th><th>Free</th><th>Locked</th><th>Total</th><th>Value</th></tr></thead>
    <tbody id="assets"></tbody>
  </table>
  <p class="flags" id="flags"></p>
</section>

<section>
  <h2>Open orders</h2>
  <div id="ordersError" class="error"></div>
  <table>
    <thead><tr><th>Symbol</th><th>Side</th><th>Type</th><th>Price</th><th>Qty</th><th>Filled</th></tr></thead>
    <tbody id="orders"></tbody>
  </table>
</section>

<section>
  <h2>Commission rates</h2>
  <div id="feesError" class="error"></div>
  <p class="flags" id="fees"></p>
</section>

<script>
(function () {
  var MASK = '••••';
  var masked = false;
  var quote = '';

  function fetchJSON(url) {
    return fetch(url).then(function (res) {
      return res.json().then(function (body) {
        if (!res.ok) { throw new Error(body.error || ('HTTP ' + res.status)); }
        return body;
      });
    });
  }

  function num(value) {
    return masked ? MASK : value;
  }

  function setText(id, text) {
    document.getElementById(id).textContent = text;
  }

  function renderBalance(data) {
    quote = data.quoteCurrency;
    setText('balanceError', '');
    setText('total', num(data.total) + ' ' + quote);
    setText('available', num(data.available) + ' ' + quote);
    setText('inOrders', num(data.inOrders) + ' ' + quote);
    setText('btc', data.btcEquivalent ? '≈ ' + num(data.btcEquivalent) + ' BTC' : '');

    var rows = '';
    (data.assets || []).forEach(function (a) {
      rows += '<tr><td>' + a.asset + '</td><td>' + num(a.free) + '</td><td>' + num(a.locked) +
        '</td><td>' + num(a.total) + '</td><td>' + num(a.quoteValue) + '</td></tr>';
    });
    document.getElementById('assets').innerHTML = rows;

    var flag = function (name, on) { return '<span>' + name + ': <b>' + (on ? 'yes' : 'no') + '</b></span>'; };
    document.getElementById('flags').innerHTML =
      flag('trade', data.canTrade) + flag('withdraw', data.canWithdraw) + flag('deposit', data.canDeposit) +
      '<span>permissions: <b>' + (data.permissions || []).join(', ') + '</b></span>';
  }

  function renderOrders(data) {
    setText('ordersError', '');
    setText('orderCount', String(data.count));
    var rows = '';
    (data.orders || []).forEach(function (o) {
      rows += '<tr><td>' + o.symbol + '</td><td>' + o.side + '</td><td>' + o.type +
        '</td><td>' + num(o.price) + '</td><td>' + num(o.origQty) + '</td><td>' + num(o.executedQty) + '</td></tr>';
    });
    document.getElementById('orders').innerHTML = rows;
  }

  function renderFees(data) {
    setText('feesError', '');
    document.getElementById('fees').innerHTML =
      '<span>maker: <b>' + num(String(data.makerCommission)) + '</b></span>' +
      '<span>taker: <b>' + num(String(data.takerCommission)) + '</b></span>' +
      '<span>buyer: <b>' + num(String(data.buyerCommission)) + '</b></span>' +
      '<span>seller: <b>' + num(String(data.sellerCommission)) + '</b></span>';
  }

  var lastBalance = null, lastOrders = null, lastFees = null;

  function refresh() {
    fetchJSON('/api/wallet/balance')
      .then(function (d) { lastBalance = d; renderBalance(d); })
      .catch(function (e) { setText('balanceError', e.message); });
    fetchJSON('/api/wallet/orders')
      .then(function (d) { lastOrders = d; renderOrders(d); })
      .catch(function (e) { setText('ordersError', e.message); });
    fetchJSON('/api/wallet/fees')
      .then(function (d) { lastFees = d; renderFees(d); })
      .catch(function (e) { setText('feesError', e.message); });
  }

  function pollHealth() {
    var el = document.getElementById('health');
    fetchJSON('/api/health')
      .then(function (d) {
        var creds = d.apiKeyConfigured && d.secretKeyConfigured;
        el.className = 'status ' + (creds ? 'ok' : 'bad');
        el.innerHTML = '<span class="dot"></span>' + (creds ? 'connected' : 'credentials missing');
      })
      .catch(function () {
        el.className = 'status bad';
        el.innerHTML = '<span class="dot"></span>offline';
      });
  }

  document.getElementById('toggle').addEventListener('click', function () {
    masked = !masked;
    this.textContent = masked ? 'Show balances' : 'Hide balances';
    if (lastBalance) { renderBalance(lastBalance); }
    if (lastOrders) { renderOrders(lastOrders); }
    if (lastFees) { renderFees(lastFees); }
  });

  refresh();
  pollHealth();
  setInterval(pollHealth, 15000);
  setInterval(refresh, 60000);
})();
</script>
</body>
</html>
`
