package views

// stylesheet drives the page transition from the data attributes the
// layout writes on <main>.
const stylesheet = `
main#view{transition:opacity .7s ease,transform .7s ease}
main#view[data-phase="exiting"]{opacity:0;transform:translateY(-20px)}
main#view[data-phase="entering"]{animation:view-enter .7s ease both}
@keyframes view-enter{from{opacity:0;transform:translateY(20px)}to{opacity:1;transform:none}}
.navbar{position:fixed;top:0;inset-inline:0;display:flex;justify-content:space-between;padding:1rem 2rem;backdrop-filter:blur(12px);z-index:50}
.navbar ul,.footer ul{display:flex;gap:1.5rem;list-style:none}
.nav-link.active{color:#065f46;font-weight:600}
.glass-card{background:rgba(255,255,255,.6);backdrop-filter:blur(16px);border-radius:1rem;padding:2rem}
.btn{display:inline-block;padding:.75rem 1.5rem;border-radius:999px}
.btn-primary{background:#064e3b;color:#fff}
.btn-outline{border:1px solid #064e3b}
.btn-glass{background:rgba(255,255,255,.2);color:#fff}
.side-nav a.active{color:#065f46;font-weight:600}
.chip.active{background:#064e3b;color:#fff}
.field-error{color:#b91c1c;font-size:.875rem}
`

// clientScript reports the services layout and scroll position to the
// session API so the server-side scroll-spy can track the active section.
const clientScript = `
(function(){
  var main=document.getElementById("view");
  if(!main||main.dataset.view!=="services")return;
  function post(path,body){
    return fetch("/api/session/"+path,{method:"POST",credentials:"same-origin",
      headers:{"Content-Type":"application/json"},body:JSON.stringify(body)})
      .then(function(r){return r.ok?r.json():null});
  }
  function apply(s){
    if(!s)return;
    document.querySelectorAll(".side-nav a").forEach(function(a){
      a.classList.toggle("active",a.dataset.section===s.section);
    });
    if(typeof s.scroll_to==="number")window.scrollTo({top:s.scroll_to,behavior:"smooth"});
  }
  function layout(){
    var sections=[].map.call(document.querySelectorAll("section[data-section]"),function(el){
      return {id:el.id,top:Math.round(el.getBoundingClientRect().top+window.scrollY)};
    });
    post("layout",{sections:sections,viewport_height:window.innerHeight}).then(apply);
  }
  var pending=false;
  window.addEventListener("scroll",function(){
    if(pending)return;pending=true;
    requestAnimationFrame(function(){pending=false;post("scroll",{y:Math.round(window.scrollY)}).then(apply)});
  },{passive:true});
  window.addEventListener("resize",layout);
  window.addEventListener("load",layout);
})();
`
